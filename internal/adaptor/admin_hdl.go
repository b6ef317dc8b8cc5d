package adaptor

import (
	"net/http"

	"service-booking/internal/dto/request"
	"service-booking/internal/usecase"
	"service-booking/pkg/utils"

	"go.uber.org/zap"
)

type AdminBookingHandler struct {
	query usecase.BookingQueryService
	log   *zap.Logger
}

func NewAdminBookingHandler(query usecase.BookingQueryService, log *zap.Logger) *AdminBookingHandler {
	return &AdminBookingHandler{
		query: query,
		log:   log.With(zap.String("handler", "admin_booking")),
	}
}

// GetAllBookings handles GET /api/admin/bookings (admin only)
func (h *AdminBookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.AdminBookingListRequest{
		PaymentStatus: query.Get("paymentStatus"),
		BookingStatus: query.Get("bookingStatus"),
		Search:        query.Get("search"),
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("limit"), 10),
		},
	}

	bookings, err := h.query.GetAllBookings(r.Context(), req)
	if err != nil {
		respondError(w, h.log, err, "get all bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings fetched successfully", bookings)
}
