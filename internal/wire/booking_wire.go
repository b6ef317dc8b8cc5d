package wire

import (
	"service-booking/internal/adaptor"
	"service-booking/internal/data/repository"
	"service-booking/pkg/middleware"
	"service-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/bookings/payment/webhook - Razorpay notifications; the
	// signature header authenticates the caller, not a session.
	r.Post("/api/bookings/payment/webhook", handler.Booking.Webhook)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/bookings - Create new booking (authenticated customer)
		r.Post("/api/bookings", handler.Booking.CreateBooking)

		// GET /api/bookings/my - Role-scoped paid booking history
		r.Get("/api/bookings/my", handler.Booking.GetMyBookings)

		// GET /api/bookings/invoice - Recomputed invoice breakdown
		r.Get("/api/bookings/invoice", handler.Booking.GetInvoiceDetails)

		// POST /api/bookings/{id}/verify-otp - Provider confirms presence code
		r.Post("/api/bookings/{id}/verify-otp", handler.Booking.VerifyOtp)

		// PUT /api/bookings/{id}/status - Provider advances the workflow
		r.Put("/api/bookings/{id}/status", handler.Booking.UpdateStatus)

		// GET /api/bookings/{id} - Booking detail for its customer/provider
		r.Get("/api/bookings/{id}", handler.Booking.GetBookingByID)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		// Require both authentication AND admin role
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/bookings - Unrestricted filtered listing
		r.Get("/", handler.AdminBooking.GetAllBookings)
	})
}
