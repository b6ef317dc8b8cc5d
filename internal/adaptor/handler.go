package adaptor

import (
	"net/http"

	"service-booking/internal/apperr"
	"service-booking/internal/usecase"
	"service-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking      *BookingHandler
	AdminBooking *AdminBookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking:      NewBookingHandler(service.Booking, service.BookingQuery, log),
		AdminBooking: NewAdminBookingHandler(service.BookingQuery, log),
	}
}

// respondError maps a service error to the response envelope by its kind.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	kind := apperr.KindOf(err)
	message := apperr.MessageOf(err)
	status := apperr.HTTPStatus(kind)

	switch {
	case kind == apperr.KindInternal || kind == apperr.KindGateway:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
	default:
		log.Warn(operation+" rejected",
			zap.Error(err),
			zap.String("operation", operation))
	}

	switch status {
	case http.StatusNotFound:
		utils.ResponseNotFound(w, message)
	case http.StatusForbidden:
		utils.ResponseForbidden(w, message)
	case http.StatusBadRequest:
		utils.ResponseBadRequest(w, message, nil)
	default:
		utils.ResponseInternalError(w, "Internal server error")
	}
}
