package usecase

import (
	"context"
	"encoding/json"
	"time"

	"service-booking/internal/apperr"
	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
	"service-booking/internal/dto/request"
	"service-booking/internal/dto/response"
	"service-booking/internal/gateway"
	"service-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentGateway is the booking core's port to the payment provider.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64) (*gateway.Order, error)
	VerifySignature(body []byte, signature string) bool
}

type BookingService interface {
	CreateBooking(ctx context.Context, customerID uuid.UUID, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	UpdateStatus(ctx context.Context, bookingID string, callerID uuid.UUID, role entity.UserRole, target string) (*response.BookingStatusResponse, error)
	VerifyBookingOtp(ctx context.Context, bookingID string, callerID uuid.UUID, code string) error
}

type bookingService struct {
	repo    *repository.Repository
	pricing PricingService
	gw      PaymentGateway
	log     *zap.Logger
}

func NewBookingService(repo *repository.Repository, pricing PricingService, gw PaymentGateway, log *zap.Logger) BookingService {
	return &bookingService{
		repo:    repo,
		pricing: pricing,
		gw:      gw,
		log:     log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, customerID uuid.UUID, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperr.Newf(apperr.KindValidation, "Validation failed: %s", utils.FormatValidationErrors(errs))
	}

	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "Invalid provider ID format %s", req.ProviderID)
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "Invalid service ID format %s", req.ServiceID)
	}

	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "Invalid address ID format %s", req.AddressID)
	}

	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "Invalid booking date %s", req.BookingDate)
	}

	address, err := s.repo.Address.FindByID(ctx, addressID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}
	if address == nil {
		return nil, apperr.New(apperr.KindNotFound, "Address not found")
	}

	// The invoice fixes the amount; it is never recomputed for this booking.
	invoice, err := s.pricing.ComputeInvoice(ctx, providerID, serviceID)
	if err != nil {
		return nil, err
	}
	amount := invoice.Calculations.PaidOnline

	order, err := s.gw.CreateOrder(ctx, amount)
	if err != nil {
		s.log.Error("Failed to create gateway order",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
			zap.Float64("amount", amount),
		)
		return nil, err
	}

	now := time.Now()
	orderID := order.ID
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CustomerID:      customerID,
		ProviderID:      providerID,
		ServiceID:       serviceID,
		BookingDate:     bookingDate,
		AddressID:       addressID,
		Amount:          amount,
		OTP:             nil,
		IsOtpVerified:   false,
		BookingStatus:   entity.BookingStatusPending,
		PaymentStatus:   entity.PaymentStatusPending,
		RazorpayOrderID: &orderID,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
			zap.String("order_id", order.ID),
		)
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", order.ID),
		zap.String("customer_id", customerID.String()),
		zap.String("provider_id", providerID.String()),
		zap.Float64("amount", amount),
	)

	return &response.CreateBookingResponse{
		BookingID:       booking.ID.String(),
		RazorpayOrderID: order.ID,
		Amount:          amount,
		Provider:        invoice.Provider.Name,
		Service:         invoice.Template.Name,
		BookingDate:     booking.BookingDate,
	}, nil
}

// HandleWebhook authenticates and reconciles a gateway notification. It
// returns nil for every verified event, including unknown types and order
// ids with no matching booking, so the gateway stops retrying.
func (s *bookingService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.gw.VerifySignature(body, signature) {
		s.log.Warn("Invalid webhook signature")
		return apperr.New(apperr.KindInvalidSignature, "Invalid signature")
	}

	var event gateway.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}

	payment := event.Payload.Payment.Entity

	switch event.Event {
	case gateway.EventPaymentCaptured:
		otp := utils.GenerateOTP(6)

		updated, err := s.repo.Booking.MarkPaid(ctx, payment.OrderID, otp)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "Internal server error", err)
		}
		if !updated {
			// Either no booking references this order or a duplicate
			// delivery already applied it; ack so the gateway stops.
			s.log.Warn("Capture event did not update any booking",
				zap.String("order_id", payment.OrderID),
				zap.String("payment_id", payment.ID),
			)
			return nil
		}

		s.log.Info("Payment captured",
			zap.String("order_id", payment.OrderID),
			zap.String("payment_id", payment.ID),
		)

	case gateway.EventPaymentFailed:
		updated, err := s.repo.Booking.MarkFailed(ctx, payment.OrderID)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "Internal server error", err)
		}

		s.log.Info("Payment failed",
			zap.String("order_id", payment.OrderID),
			zap.String("payment_id", payment.ID),
			zap.Bool("updated", updated),
		)

	default:
		s.log.Debug("Ignoring webhook event", zap.String("event", event.Event))
	}

	return nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, bookingID string, callerID uuid.UUID, role entity.UserRole, target string) (*response.BookingStatusResponse, error) {
	if role != entity.RoleProvider {
		return nil, apperr.New(apperr.KindForbidden, "Access denied: Only providers can update status")
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "Invalid booking ID")
	}

	targetStatus := entity.BookingStatus(target)
	if !targetStatus.Valid() {
		return nil, apperr.Newf(apperr.KindValidation,
			"Invalid booking status. Valid values: %s, %s, %s, %s, %s",
			entity.BookingStatusPending, entity.BookingStatusConfirmed,
			entity.BookingStatusStarted, entity.BookingStatusCompleted,
			entity.BookingStatusCancelled)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}
	if booking == nil {
		return nil, apperr.New(apperr.KindNotFound, "Booking not found")
	}

	if booking.ProviderID != callerID {
		return nil, apperr.New(apperr.KindForbidden, "Access denied: Not your booking")
	}

	current := booking.BookingStatus

	if targetStatus == entity.BookingStatusCancelled {
		if current != entity.BookingStatusPending && current != entity.BookingStatusConfirmed {
			return nil, apperr.Newf(apperr.KindInvalidTransition,
				"Cannot cancel booking after it has started or completed. Current status: %q", current)
		}
	} else {
		// Forward moves must land on the immediate next workflow step.
		// Cancelled sits outside the chain and has no next step, so it
		// can never be re-entered into the workflow.
		if current.WorkflowIndex() < 0 || targetStatus.WorkflowIndex() != current.WorkflowIndex()+1 {
			return nil, apperr.Newf(apperr.KindInvalidTransition,
				"Invalid status transition from %q to %q. Must follow: %s", current, targetStatus,
				workflowChain())
		}
	}

	if targetStatus == entity.BookingStatusStarted && !booking.IsOtpVerified {
		return nil, apperr.New(apperr.KindPreconditionFailed, "OTP verification required before starting the service")
	}

	if err := s.repo.Booking.UpdateStatus(ctx, id, targetStatus); err != nil {
		s.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.String("status", target),
		)
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("from", string(current)),
		zap.String("to", target),
	)

	return &response.BookingStatusResponse{
		BookingID:     bookingID,
		BookingStatus: targetStatus,
		UpdatedAt:     time.Now(),
	}, nil
}

func (s *bookingService) VerifyBookingOtp(ctx context.Context, bookingID string, callerID uuid.UUID, code string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return apperr.New(apperr.KindValidation, "Invalid booking ID")
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}
	if booking == nil {
		return apperr.New(apperr.KindNotFound, "Booking not found")
	}

	if booking.ProviderID != callerID {
		return apperr.New(apperr.KindForbidden, "Access denied: Not your booking")
	}

	// Exact, case-sensitive match against the stored code. No attempt cap
	// on this path; failures are logged for later rate limiting.
	if booking.OTP == nil || *booking.OTP != code {
		s.log.Warn("OTP verification failed",
			zap.String("booking_id", bookingID),
			zap.String("provider_id", callerID.String()),
		)
		return apperr.New(apperr.KindInvalidOtp, "Invalid OTP")
	}

	if err := s.repo.Booking.SetOtpVerified(ctx, id); err != nil {
		return apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}

	s.log.Info("Booking OTP verified", zap.String("booking_id", bookingID))
	return nil
}

func workflowChain() string {
	chain := ""
	for i, st := range entity.BookingWorkflow {
		if i > 0 {
			chain += " -> "
		}
		chain += string(st)
	}
	return chain
}
