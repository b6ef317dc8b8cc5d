package request

type CreateBookingRequest struct {
	ProviderID  string `json:"providerId" validate:"required,uuid4"`
	ServiceID   string `json:"serviceId" validate:"required,uuid4"`
	BookingDate string `json:"bookingDate" validate:"required,datetime=2006-01-02"`
	AddressID   string `json:"addressId" validate:"required,uuid4"`
}

type VerifyBookingOtpRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

type UpdateBookingStatusRequest struct {
	BookingStatus string `json:"bookingStatus" validate:"required,oneof=pending confirmed started completed cancelled"`
}

// AdminBookingListRequest carries the optional admin listing filters.
// Status values are validated against the enums in the usecase so an
// unknown value is reported, not silently dropped.
type AdminBookingListRequest struct {
	PaymentStatus string
	BookingStatus string
	Search        string
	PaginatedRequest
}
