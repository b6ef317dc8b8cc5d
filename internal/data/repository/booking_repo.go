package repository

import (
	"context"
	"fmt"

	"service-booking/internal/data/entity"
	"service-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// AdminBookingFilter narrows the unrestricted admin listing. Statuses are
// validated at the usecase boundary before they reach the repository.
type AdminBookingFilter struct {
	PaymentStatus *entity.PaymentStatus
	BookingStatus *entity.BookingStatus
	Search        string
}

// BookingDetail is a booking row joined with its customer, provider,
// service (with template) and location for read-side assembly.
type BookingDetail struct {
	entity.Booking
	ProviderName       string
	ProviderEmail      string
	ProviderPhone      *string
	ProviderImage      *string
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      *string
	CustomerImage      *string
	HourlyRate         *float64
	DailyRate          *float64
	ServiceDescription string
	ServiceApproved    bool
	TemplateName       string
	TemplateImage      *string
	AddressLine        *string
	City               *string
	State              *string
	Zipcode            *string
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*BookingDetail, error)
	FindPaidByUser(ctx context.Context, userID uuid.UUID, role entity.UserRole, limit, offset int) ([]*BookingDetail, error)
	CountPaidByUser(ctx context.Context, userID uuid.UUID, role entity.UserRole) (int64, error)
	FindAll(ctx context.Context, filter AdminBookingFilter, limit, offset int) ([]*BookingDetail, error)
	CountAll(ctx context.Context, filter AdminBookingFilter) (int64, error)

	// Webhook reconciliation. Both are single conditional updates keyed by
	// the gateway order id so duplicate deliveries cannot race or rotate
	// the OTP; the bool reports whether a row actually changed.
	MarkPaid(ctx context.Context, orderID, otp string) (bool, error)
	MarkFailed(ctx context.Context, orderID string) (bool, error)

	SetOtpVerified(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, customer_id, provider_id, service_id, booking_date, address_id,
		                      amount, otp, is_otp_verified, booking_status, payment_status,
		                      razorpay_order_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CustomerID,
		booking.ProviderID,
		booking.ServiceID,
		booking.BookingDate,
		booking.AddressID,
		booking.Amount,
		booking.OTP,
		booking.IsOtpVerified,
		booking.BookingStatus,
		booking.PaymentStatus,
		booking.RazorpayOrderID,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("customer_id", booking.CustomerID.String()),
			zap.String("provider_id", booking.ProviderID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

const bookingColumns = `id, customer_id, provider_id, service_id, booking_date, address_id,
	       amount, otp, is_otp_verified, booking_status, payment_status,
	       razorpay_order_id, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.ProviderID,
		&booking.ServiceID,
		&booking.BookingDate,
		&booking.AddressID,
		&booking.Amount,
		&booking.OTP,
		&booking.IsOtpVerified,
		&booking.BookingStatus,
		&booking.PaymentStatus,
		&booking.RazorpayOrderID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

const bookingDetailColumns = `
	b.id, b.customer_id, b.provider_id, b.service_id, b.booking_date, b.address_id,
	b.amount, b.otp, b.is_otp_verified, b.booking_status, b.payment_status,
	b.razorpay_order_id, b.created_at, b.updated_at,
	p.name, p.email, p.phone, p.profile_image,
	c.name, c.email, c.phone, c.profile_image,
	s.hourly_rate, s.daily_rate, s.description, s.is_approved,
	t.name, t.image,
	a.address_line, a.city, a.state, a.zipcode`

const bookingDetailJoins = `
	FROM bookings b
	JOIN users p ON p.id = b.provider_id
	JOIN users c ON c.id = b.customer_id
	JOIN provider_services s ON s.id = b.service_id
	JOIN service_templates t ON t.id = s.template_id
	LEFT JOIN addresses a ON a.id = b.address_id`

func scanBookingDetail(row pgx.Row) (*BookingDetail, error) {
	var d BookingDetail
	err := row.Scan(
		&d.ID,
		&d.CustomerID,
		&d.ProviderID,
		&d.ServiceID,
		&d.BookingDate,
		&d.AddressID,
		&d.Amount,
		&d.OTP,
		&d.IsOtpVerified,
		&d.BookingStatus,
		&d.PaymentStatus,
		&d.RazorpayOrderID,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.ProviderName,
		&d.ProviderEmail,
		&d.ProviderPhone,
		&d.ProviderImage,
		&d.CustomerName,
		&d.CustomerEmail,
		&d.CustomerPhone,
		&d.CustomerImage,
		&d.HourlyRate,
		&d.DailyRate,
		&d.ServiceDescription,
		&d.ServiceApproved,
		&d.TemplateName,
		&d.TemplateImage,
		&d.AddressLine,
		&d.City,
		&d.State,
		&d.Zipcode,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *bookingRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*BookingDetail, error) {
	query := `SELECT` + bookingDetailColumns + bookingDetailJoins + ` WHERE b.id = $1`

	detail, err := scanBookingDetail(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking detail",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking detail %s: %w", id.String(), err)
	}

	return detail, nil
}

// userColumn maps a viewer role to its booking ownership column.
func userColumn(role entity.UserRole) string {
	if role == entity.RoleProvider {
		return "b.provider_id"
	}
	return "b.customer_id"
}

func (r *bookingRepository) FindPaidByUser(ctx context.Context, userID uuid.UUID, role entity.UserRole, limit, offset int) ([]*BookingDetail, error) {
	query := `SELECT` + bookingDetailColumns + bookingDetailJoins + `
		WHERE ` + userColumn(role) + ` = $1 AND b.payment_status = 'paid'
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("role", string(role)),
		)
		return nil, fmt.Errorf("find paid bookings for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var details []*BookingDetail
	for rows.Next() {
		detail, err := scanBookingDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		details = append(details, detail)
	}

	return details, nil
}

func (r *bookingRepository) CountPaidByUser(ctx context.Context, userID uuid.UUID, role entity.UserRole) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings b WHERE ` + userColumn(role) + ` = $1 AND b.payment_status = 'paid'`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count paid bookings for user %s: %w", userID.String(), err)
	}

	return count, nil
}

// buildAdminFilter renders the WHERE clause and args for the admin listing.
func buildAdminFilter(filter AdminBookingFilter) (string, []any) {
	where := ""
	var args []any

	and := func(clause string) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	if filter.PaymentStatus != nil {
		args = append(args, *filter.PaymentStatus)
		and(fmt.Sprintf("b.payment_status = $%d", len(args)))
	}
	if filter.BookingStatus != nil {
		args = append(args, *filter.BookingStatus)
		and(fmt.Sprintf("b.booking_status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		and(fmt.Sprintf("(p.name ILIKE $%d OR c.name ILIKE $%d)", len(args), len(args)))
	}

	return where, args
}

func (r *bookingRepository) FindAll(ctx context.Context, filter AdminBookingFilter, limit, offset int) ([]*BookingDetail, error) {
	where, args := buildAdminFilter(filter)
	args = append(args, limit, offset)

	query := `SELECT` + bookingDetailColumns + bookingDetailJoins + where +
		fmt.Sprintf(` ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find all bookings", zap.Error(err))
		return nil, fmt.Errorf("find all bookings: %w", err)
	}
	defer rows.Close()

	var details []*BookingDetail
	for rows.Next() {
		detail, err := scanBookingDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		details = append(details, detail)
	}

	return details, nil
}

func (r *bookingRepository) CountAll(ctx context.Context, filter AdminBookingFilter) (int64, error) {
	where, args := buildAdminFilter(filter)

	query := `SELECT COUNT(*)` + bookingDetailJoins + where

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count all bookings", zap.Error(err))
		return 0, fmt.Errorf("count all bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) MarkPaid(ctx context.Context, orderID, otp string) (bool, error) {
	// Conditional on payment_status so a redelivered capture event is a
	// no-op and cannot rotate an already issued OTP.
	query := `
		UPDATE bookings
		SET payment_status = 'paid', otp = $2, updated_at = NOW()
		WHERE razorpay_order_id = $1 AND payment_status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, orderID, otp)
	if err != nil {
		r.log.Error("Failed to mark booking paid",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return false, fmt.Errorf("mark booking paid for order %s: %w", orderID, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) MarkFailed(ctx context.Context, orderID string) (bool, error) {
	query := `
		UPDATE bookings
		SET payment_status = 'failed', updated_at = NOW()
		WHERE razorpay_order_id = $1 AND payment_status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to mark booking failed",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return false, fmt.Errorf("mark booking failed for order %s: %w", orderID, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) SetOtpVerified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE bookings SET is_otp_verified = TRUE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to set OTP verified",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("set OTP verified for booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET booking_status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}
