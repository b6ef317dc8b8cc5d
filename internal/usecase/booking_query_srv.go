package usecase

import (
	"context"

	"service-booking/internal/apperr"
	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
	"service-booking/internal/dto/request"
	"service-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingQueryService is the read side: role-scoped listings and detail
// views with a freshly computed invoice.
type BookingQueryService interface {
	GetMyBookings(ctx context.Context, userID uuid.UUID, role entity.UserRole, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingSummary], error)
	GetBookingByID(ctx context.Context, bookingID string, userID uuid.UUID, role entity.UserRole) (*response.BookingDetailResponse, error)
	GetInvoiceDetails(ctx context.Context, providerID, providerServiceID string) (*response.InvoiceDetailsResponse, error)
	GetAllBookings(ctx context.Context, req *request.AdminBookingListRequest) (*response.PaginatedResponse[response.BookingSummary], error)
}

type bookingQueryService struct {
	repo    *repository.Repository
	pricing PricingService
	log     *zap.Logger
}

func NewBookingQueryService(repo *repository.Repository, pricing PricingService, log *zap.Logger) BookingQueryService {
	return &bookingQueryService{
		repo:    repo,
		pricing: pricing,
		log:     log.With(zap.String("service", "booking_query")),
	}
}

func (s *bookingQueryService) GetMyBookings(ctx context.Context, userID uuid.UUID, role entity.UserRole, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingSummary], error) {
	if role != entity.RoleCustomer && role != entity.RoleProvider {
		return nil, apperr.New(apperr.KindForbidden, "Access denied: Only customers or providers can view bookings")
	}

	limit := req.Limit()
	offset := req.Offset()

	details, err := s.repo.Booking.FindPaidByUser(ctx, userID, role, limit, offset)
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("role", string(role)),
		)
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}

	total, err := s.repo.Booking.CountPaidByUser(ctx, userID, role)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}

	summaries := make([]response.BookingSummary, len(details))
	for i, d := range details {
		summaries[i] = response.BookingDetailToSummary(d)
	}

	s.log.Info("User bookings retrieved",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(details)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(summaries, req.Page, limit, total), nil
}

func (s *bookingQueryService) GetBookingByID(ctx context.Context, bookingID string, userID uuid.UUID, role entity.UserRole) (*response.BookingDetailResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "Invalid booking ID")
	}

	detail, err := s.repo.Booking.FindDetailByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}
	if detail == nil {
		return nil, apperr.New(apperr.KindNotFound, "Booking not found")
	}

	// Only the booking's own customer or provider may view it.
	switch role {
	case entity.RoleCustomer:
		if detail.CustomerID != userID {
			return nil, apperr.New(apperr.KindForbidden, "Access denied")
		}
	case entity.RoleProvider:
		if detail.ProviderID != userID {
			return nil, apperr.New(apperr.KindForbidden, "Access denied")
		}
	default:
		return nil, apperr.New(apperr.KindForbidden, "Access denied")
	}

	// The invoice is never served from a stored snapshot.
	invoice, err := s.pricing.ComputeInvoice(ctx, detail.ProviderID, detail.ServiceID)
	if err != nil {
		return nil, err
	}

	summary := response.BookingDetailToSummary(detail)
	summary.Provider.Email = detail.ProviderEmail
	summary.Provider.Phone = detail.ProviderPhone

	return &response.BookingDetailResponse{
		BookingSummary: summary,
		Location:       response.BookingDetailLocation(detail),
		OTP:            detail.OTP,
		Invoice:        invoice.Calculations,
		UpdatedAt:      detail.UpdatedAt,
	}, nil
}

func (s *bookingQueryService) GetInvoiceDetails(ctx context.Context, providerID, providerServiceID string) (*response.InvoiceDetailsResponse, error) {
	if providerID == "" || providerServiceID == "" {
		return nil, apperr.New(apperr.KindValidation, "providerId and providerServiceId are required")
	}

	pid, err := uuid.Parse(providerID)
	if err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "Invalid provider ID format %s", providerID)
	}

	sid, err := uuid.Parse(providerServiceID)
	if err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "Invalid service ID format %s", providerServiceID)
	}

	invoice, err := s.pricing.ComputeInvoice(ctx, pid, sid)
	if err != nil {
		return nil, err
	}

	resp := &response.InvoiceDetailsResponse{Calculations: invoice.Calculations}
	resp.Provider.ID = invoice.Provider.ID.String()
	resp.Provider.Name = invoice.Provider.Name
	resp.ProviderService.ID = invoice.Service.ID.String()
	resp.ProviderService.Description = invoice.Service.Description
	if invoice.Service.DailyRate != nil {
		resp.ProviderService.DailyRate = *invoice.Service.DailyRate
	}
	if invoice.Service.HourlyRate != nil {
		resp.ProviderService.HourlyRate = *invoice.Service.HourlyRate
	}
	resp.Template.ID = invoice.Template.ID.String()
	resp.Template.Name = invoice.Template.Name

	return resp, nil
}

func (s *bookingQueryService) GetAllBookings(ctx context.Context, req *request.AdminBookingListRequest) (*response.PaginatedResponse[response.BookingSummary], error) {
	var filter repository.AdminBookingFilter

	if req.PaymentStatus != "" {
		status := entity.PaymentStatus(req.PaymentStatus)
		if !status.Valid() {
			return nil, apperr.Newf(apperr.KindValidation,
				"Invalid paymentStatus value. Allowed values: %s, %s, %s",
				entity.PaymentStatusPending, entity.PaymentStatusPaid, entity.PaymentStatusFailed)
		}
		filter.PaymentStatus = &status
	}

	if req.BookingStatus != "" {
		status := entity.BookingStatus(req.BookingStatus)
		if !status.Valid() {
			return nil, apperr.Newf(apperr.KindValidation,
				"Invalid bookingStatus value. Allowed values: %s, %s, %s, %s, %s",
				entity.BookingStatusPending, entity.BookingStatusConfirmed,
				entity.BookingStatusCancelled, entity.BookingStatusStarted,
				entity.BookingStatusCompleted)
		}
		filter.BookingStatus = &status
	}

	filter.Search = req.Search

	limit := req.Limit()
	offset := req.Offset()

	details, err := s.repo.Booking.FindAll(ctx, filter, limit, offset)
	if err != nil {
		s.log.Error("Failed to get all bookings", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}

	total, err := s.repo.Booking.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count all bookings", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}

	summaries := make([]response.BookingSummary, len(details))
	for i, d := range details {
		summaries[i] = response.BookingDetailToSummary(d)
	}

	s.log.Info("All bookings retrieved",
		zap.Int("count", len(details)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(summaries, req.Page, limit, total), nil
}
