package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusStarted   BookingStatus = "started"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingWorkflow is the forward chain; cancelled is reachable only from
// pending or confirmed.
var BookingWorkflow = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusStarted,
	BookingStatusCompleted,
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusStarted,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// WorkflowIndex returns the position in the forward chain, -1 for cancelled
// or unknown values.
func (s BookingStatus) WorkflowIndex() int {
	for i, st := range BookingWorkflow {
		if st == s {
			return i
		}
	}
	return -1
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// Booking amount is written once at creation and never updated; the OTP is
// set by the payment webhook and cleared back to null only on reset.
type Booking struct {
	BaseNoDelete
	CustomerID      uuid.UUID     `db:"customer_id"`
	ProviderID      uuid.UUID     `db:"provider_id"`
	ServiceID       uuid.UUID     `db:"service_id"`
	BookingDate     time.Time     `db:"booking_date"`
	AddressID       uuid.UUID     `db:"address_id"`
	Amount          float64       `db:"amount"`
	OTP             *string       `db:"otp"`
	IsOtpVerified   bool          `db:"is_otp_verified"`
	BookingStatus   BookingStatus `db:"booking_status"`
	PaymentStatus   PaymentStatus `db:"payment_status"`
	RazorpayOrderID *string       `db:"razorpay_order_id"`
}
