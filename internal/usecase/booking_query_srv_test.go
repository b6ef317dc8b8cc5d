package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"service-booking/internal/apperr"
	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
	"service-booking/internal/dto/request"
	"service-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBookingViewRepo serves the joined read-side queries from a slice,
// applying the same filters the SQL does.
type fakeBookingViewRepo struct {
	repository.BookingRepository
	details []*repository.BookingDetail
}

func (f *fakeBookingViewRepo) FindDetailByID(ctx context.Context, id uuid.UUID) (*repository.BookingDetail, error) {
	for _, d := range f.details {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingViewRepo) paidByUser(userID uuid.UUID, role entity.UserRole) []*repository.BookingDetail {
	var out []*repository.BookingDetail
	for _, d := range f.details {
		if d.PaymentStatus != entity.PaymentStatusPaid {
			continue
		}
		owner := d.CustomerID
		if role == entity.RoleProvider {
			owner = d.ProviderID
		}
		if owner == userID {
			out = append(out, d)
		}
	}
	return out
}

func (f *fakeBookingViewRepo) FindPaidByUser(ctx context.Context, userID uuid.UUID, role entity.UserRole, limit, offset int) ([]*repository.BookingDetail, error) {
	matched := f.paidByUser(userID, role)
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeBookingViewRepo) CountPaidByUser(ctx context.Context, userID uuid.UUID, role entity.UserRole) (int64, error) {
	return int64(len(f.paidByUser(userID, role))), nil
}

func (f *fakeBookingViewRepo) filtered(filter repository.AdminBookingFilter) []*repository.BookingDetail {
	var out []*repository.BookingDetail
	for _, d := range f.details {
		if filter.PaymentStatus != nil && d.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		if filter.BookingStatus != nil && d.BookingStatus != *filter.BookingStatus {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(d.ProviderName), needle) &&
				!strings.Contains(strings.ToLower(d.CustomerName), needle) {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

func (f *fakeBookingViewRepo) FindAll(ctx context.Context, filter repository.AdminBookingFilter, limit, offset int) ([]*repository.BookingDetail, error) {
	matched := f.filtered(filter)
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeBookingViewRepo) CountAll(ctx context.Context, filter repository.AdminBookingFilter) (int64, error) {
	return int64(len(f.filtered(filter))), nil
}

type queryFixture struct {
	svc        BookingQueryService
	view       *fakeBookingViewRepo
	customerID uuid.UUID
	providerID uuid.UUID
	serviceID  uuid.UUID
}

func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()

	customerID := uuid.New()
	providerID := uuid.New()
	serviceID := uuid.New()

	template := &entity.ServiceTemplate{
		BaseSimple:         entity.BaseSimple{ID: uuid.New()},
		Name:               "Deep Cleaning",
		IsApproved:         true,
		TokenAmountPercent: 20,
		ConvenienceFee:     50,
	}

	view := &fakeBookingViewRepo{}
	repo := &repository.Repository{
		User: &fakeUserRepo{users: map[uuid.UUID]*entity.User{
			providerID: {
				Base: entity.Base{ID: providerID},
				Name: "Sparkle Home Services",
				Role: entity.RoleProvider,
			},
		}},
		ProviderService: &fakeProviderServiceRepo{services: map[uuid.UUID]*entity.ProviderService{
			serviceID: {
				BaseSimple:  entity.BaseSimple{ID: serviceID},
				ProviderID:  providerID,
				TemplateID:  template.ID,
				DailyRate:   floatPtr(1000),
				Description: "Full house deep clean",
				IsApproved:  true,
				Template:    template,
			},
		}},
		Booking: view,
	}

	log := zap.NewNop()
	pricing := NewPricingService(repo, utils.PricingConfig{IgstTaxPercent: 9, SgstTaxPercent: 9}, log)

	return &queryFixture{
		svc:        NewBookingQueryService(repo, pricing, log),
		view:       view,
		customerID: customerID,
		providerID: providerID,
		serviceID:  serviceID,
	}
}

func (f *queryFixture) seedDetail(paymentStatus entity.PaymentStatus, bookingStatus entity.BookingStatus) *repository.BookingDetail {
	d := &repository.BookingDetail{
		Booking: entity.Booking{
			BaseNoDelete:  entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
			CustomerID:    f.customerID,
			ProviderID:    f.providerID,
			ServiceID:     f.serviceID,
			BookingDate:   time.Now().AddDate(0, 0, 3),
			Amount:        295,
			OTP:           strPtr("604291"),
			BookingStatus: bookingStatus,
			PaymentStatus: paymentStatus,
		},
		ProviderName:  "Sparkle Home Services",
		ProviderEmail: "ops@sparkle.example",
		CustomerName:  "Ravi Kumar",
		CustomerEmail: "ravi@example.com",
		DailyRate:     floatPtr(1000),
		TemplateName:  "Deep Cleaning",
		AddressLine:   strPtr("14 Lake View Road"),
		City:          strPtr("Pune"),
		State:         strPtr("Maharashtra"),
		Zipcode:       strPtr("411001"),
	}
	f.view.details = append(f.view.details, d)
	return d
}

func TestGetMyBookingsRoleCheck(t *testing.T) {
	f := newQueryFixture(t)

	_, err := f.svc.GetMyBookings(context.Background(), f.customerID, entity.RoleAdmin, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestGetMyBookingsPagination(t *testing.T) {
	f := newQueryFixture(t)
	for i := 0; i < 25; i++ {
		f.seedDetail(entity.PaymentStatusPaid, entity.BookingStatusConfirmed)
	}
	// Unpaid bookings never reach the customer or provider listing.
	f.seedDetail(entity.PaymentStatusPending, entity.BookingStatusPending)
	f.seedDetail(entity.PaymentStatusFailed, entity.BookingStatusPending)

	resp, err := f.svc.GetMyBookings(context.Background(), f.customerID, entity.RoleCustomer, &request.PaginatedRequest{Page: 2, PerPage: 10})
	require.NoError(t, err)

	assert.Len(t, resp.Data, 10)
	assert.Equal(t, int64(25), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 10, resp.Pagination.Limit)
	assert.Equal(t, 3, resp.Pagination.TotalPages)

	// Same rows, provider side.
	resp, err = f.svc.GetMyBookings(context.Background(), f.providerID, entity.RoleProvider, &request.PaginatedRequest{Page: 3, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 5)

	// A stranger sees an empty page, not an error; the data field is an
	// empty array, never null.
	resp, err = f.svc.GetMyBookings(context.Background(), uuid.New(), entity.RoleCustomer, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)
	assert.Equal(t, int64(0), resp.Pagination.Total)
}

func TestGetBookingByID(t *testing.T) {
	f := newQueryFixture(t)
	detail := f.seedDetail(entity.PaymentStatusPaid, entity.BookingStatusConfirmed)

	t.Run("customer owner", func(t *testing.T) {
		resp, err := f.svc.GetBookingByID(context.Background(), detail.ID.String(), f.customerID, entity.RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, detail.ID.String(), resp.BookingID)
		assert.Equal(t, "Sparkle Home Services", resp.Provider.Name)
		assert.Equal(t, "ops@sparkle.example", resp.Provider.Email)
		require.NotNil(t, resp.OTP)
		assert.Equal(t, "604291", *resp.OTP)
		require.NotNil(t, resp.Location)
		assert.Equal(t, "Pune", resp.Location.City)
		assert.InDelta(t, 295.0, resp.Invoice.PaidOnline, 1e-9, "invoice is recomputed from current rates")
	})

	t.Run("provider owner", func(t *testing.T) {
		_, err := f.svc.GetBookingByID(context.Background(), detail.ID.String(), f.providerID, entity.RoleProvider)
		assert.NoError(t, err)
	})

	t.Run("other customer", func(t *testing.T) {
		_, err := f.svc.GetBookingByID(context.Background(), detail.ID.String(), uuid.New(), entity.RoleCustomer)
		require.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("admin has no detail access", func(t *testing.T) {
		_, err := f.svc.GetBookingByID(context.Background(), detail.ID.String(), f.customerID, entity.RoleAdmin)
		require.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.svc.GetBookingByID(context.Background(), uuid.New().String(), f.customerID, entity.RoleCustomer)
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := f.svc.GetBookingByID(context.Background(), "nope", f.customerID, entity.RoleCustomer)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestGetInvoiceDetails(t *testing.T) {
	f := newQueryFixture(t)

	t.Run("success", func(t *testing.T) {
		resp, err := f.svc.GetInvoiceDetails(context.Background(), f.providerID.String(), f.serviceID.String())
		require.NoError(t, err)
		assert.Equal(t, "Sparkle Home Services", resp.Provider.Name)
		assert.Equal(t, "Deep Cleaning", resp.Template.Name)
		assert.InDelta(t, 1000.0, resp.ProviderService.DailyRate, 1e-9)
		assert.InDelta(t, 295.0, resp.Calculations.PaidOnline, 1e-9)
		assert.InDelta(t, 800.0, resp.Calculations.PayToProvider, 1e-9)
	})

	t.Run("missing params", func(t *testing.T) {
		_, err := f.svc.GetInvoiceDetails(context.Background(), "", f.serviceID.String())
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		_, err = f.svc.GetInvoiceDetails(context.Background(), f.providerID.String(), "")
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("malformed ids", func(t *testing.T) {
		_, err := f.svc.GetInvoiceDetails(context.Background(), "abc", f.serviceID.String())
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestGetAllBookings(t *testing.T) {
	f := newQueryFixture(t)
	f.seedDetail(entity.PaymentStatusPaid, entity.BookingStatusConfirmed)
	f.seedDetail(entity.PaymentStatusPaid, entity.BookingStatusCompleted)
	f.seedDetail(entity.PaymentStatusPending, entity.BookingStatusPending)
	f.seedDetail(entity.PaymentStatusFailed, entity.BookingStatusPending)

	t.Run("unfiltered sees every payment state", func(t *testing.T) {
		resp, err := f.svc.GetAllBookings(context.Background(), &request.AdminBookingListRequest{
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 4)
		assert.Equal(t, int64(4), resp.Pagination.Total)
	})

	t.Run("payment status filter", func(t *testing.T) {
		resp, err := f.svc.GetAllBookings(context.Background(), &request.AdminBookingListRequest{
			PaymentStatus:    "failed",
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, entity.PaymentStatusFailed, resp.Data[0].PaymentStatus)
	})

	t.Run("booking status filter", func(t *testing.T) {
		resp, err := f.svc.GetAllBookings(context.Background(), &request.AdminBookingListRequest{
			BookingStatus:    "completed",
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 1)
	})

	t.Run("name search", func(t *testing.T) {
		resp, err := f.svc.GetAllBookings(context.Background(), &request.AdminBookingListRequest{
			Search:           "sparkle",
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 4)

		resp, err = f.svc.GetAllBookings(context.Background(), &request.AdminBookingListRequest{
			Search:           "nobody",
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Data)
	})

	t.Run("invalid filter values", func(t *testing.T) {
		_, err := f.svc.GetAllBookings(context.Background(), &request.AdminBookingListRequest{
			PaymentStatus:    "settled",
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		_, err = f.svc.GetAllBookings(context.Background(), &request.AdminBookingListRequest{
			BookingStatus:    "archived",
			PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}
