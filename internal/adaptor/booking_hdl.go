package adaptor

import (
	"encoding/json"
	"io"
	"net/http"

	"service-booking/internal/data/entity"
	"service-booking/internal/dto/request"
	"service-booking/internal/usecase"
	"service-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	query   usecase.BookingQueryService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, query usecase.BookingQueryService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		query:   query,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created successfully", booking)
}

// Webhook handles POST /api/bookings/payment/webhook (public). The raw body
// is required for signature verification, so it is read before any decode.
func (h *BookingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.Error("Failed to read webhook body", zap.Error(err))
		utils.ResponseInternalError(w, "Internal Server Error")
		return
	}

	signature := r.Header.Get("x-razorpay-signature")

	if err := h.service.HandleWebhook(r.Context(), body, signature); err != nil {
		respondError(w, h.log, err, "process webhook")
		return
	}

	utils.ResponseSuccess(w, "Webhook received", nil)
}

// GetMyBookings handles GET /api/bookings/my (protected)
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	role, _ := utils.GetRoleFromContext(r.Context())

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("limit"), 10),
	}

	bookings, err := h.query.GetMyBookings(r.Context(), userID, entity.UserRole(role), req)
	if err != nil {
		respondError(w, h.log, err, "get my bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings fetched successfully", bookings)
}

// GetInvoiceDetails handles GET /api/bookings/invoice (protected)
func (h *BookingHandler) GetInvoiceDetails(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	invoice, err := h.query.GetInvoiceDetails(r.Context(), query.Get("providerId"), query.Get("providerServiceId"))
	if err != nil {
		respondError(w, h.log, err, "get invoice details")
		return
	}

	utils.ResponseSuccess(w, "Invoice details fetched successfully", invoice)
}

// GetBookingByID handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	role, _ := utils.GetRoleFromContext(r.Context())
	bookingID := chi.URLParam(r, "id")

	booking, err := h.query.GetBookingByID(r.Context(), bookingID, userID, entity.UserRole(role))
	if err != nil {
		respondError(w, h.log, err, "get booking by ID")
		return
	}

	utils.ResponseSuccess(w, "Booking fetched successfully", booking)
}

// UpdateStatus handles PUT /api/bookings/{id}/status (protected, provider)
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	role, _ := utils.GetRoleFromContext(r.Context())
	bookingID := chi.URLParam(r, "id")

	var req request.UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.UpdateStatus(r.Context(), bookingID, userID, entity.UserRole(role), req.BookingStatus)
	if err != nil {
		respondError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking status updated successfully", result)
}

// VerifyOtp handles POST /api/bookings/{id}/verify-otp (protected, provider)
func (h *BookingHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")

	var req request.VerifyBookingOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.VerifyBookingOtp(r.Context(), bookingID, userID, req.OTP); err != nil {
		respondError(w, h.log, err, "verify booking OTP")
		return
	}

	utils.ResponseSuccess(w, "OTP verified successfully", nil)
}
