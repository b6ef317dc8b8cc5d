package response

import (
	"time"

	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
)

type CreateBookingResponse struct {
	BookingID       string    `json:"bookingId"`
	RazorpayOrderID string    `json:"razorpayOrderId"`
	Amount          float64   `json:"amount"`
	Provider        string    `json:"provider"`
	Service         string    `json:"service"`
	BookingDate     time.Time `json:"bookingDate"`
}

type PartyInfo struct {
	Name  string  `json:"name"`
	Email string  `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Image *string `json:"image,omitempty"`
}

type ServiceInfo struct {
	Name        string   `json:"name"`
	Image       *string  `json:"image,omitempty"`
	HourlyRate  *float64 `json:"hourlyRate,omitempty"`
	DailyRate   *float64 `json:"dailyRate,omitempty"`
	Description string   `json:"description,omitempty"`
	IsApproved  bool     `json:"isApproved"`
}

type LocationInfo struct {
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zipcode     string `json:"zipcode"`
}

type BookingSummary struct {
	BookingID     string               `json:"bookingId"`
	Provider      PartyInfo            `json:"provider"`
	Customer      PartyInfo            `json:"customer"`
	Service       ServiceInfo          `json:"service"`
	Amount        float64              `json:"amount"`
	BookingDate   time.Time            `json:"bookingDate"`
	PaymentStatus entity.PaymentStatus `json:"paymentStatus"`
	BookingStatus entity.BookingStatus `json:"bookingStatus"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// InvoiceBreakdown is always recomputed from current rates and config,
// never read back from a stored snapshot.
type InvoiceBreakdown struct {
	Discount       float64 `json:"discount"`
	AdditionalCost float64 `json:"additionalCost"`
	IgstTaxAmount  float64 `json:"igstTaxAmount"`
	SgstTaxAmount  float64 `json:"sgstTaxAmount"`
	ConvenienceFee float64 `json:"convenienceFee"`
	TokenAmount    float64 `json:"tokenAmount"`
	PaidOnline     float64 `json:"paidOnline"`
	PayToProvider  float64 `json:"payToProvider"`
	DailyRate      float64 `json:"dailyRate"`
}

type BookingDetailResponse struct {
	BookingSummary
	Location  *LocationInfo    `json:"location,omitempty"`
	OTP       *string          `json:"otp,omitempty"`
	Invoice   InvoiceBreakdown `json:"invoice"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type InvoiceDetailsResponse struct {
	Provider struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"provider"`
	ProviderService struct {
		ID          string  `json:"id"`
		Description string  `json:"description"`
		DailyRate   float64 `json:"dailyRate"`
		HourlyRate  float64 `json:"hourlyRate"`
	} `json:"providerService"`
	Template struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"template"`
	Calculations InvoiceBreakdown `json:"calculations"`
}

type BookingStatusResponse struct {
	BookingID     string               `json:"bookingId"`
	BookingStatus entity.BookingStatus `json:"bookingStatus"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// BookingDetailToSummary maps a joined booking row to its list view.
func BookingDetailToSummary(d *repository.BookingDetail) BookingSummary {
	return BookingSummary{
		BookingID: d.ID.String(),
		Provider: PartyInfo{
			Name:  d.ProviderName,
			Image: d.ProviderImage,
		},
		Customer: PartyInfo{
			Name:  d.CustomerName,
			Email: d.CustomerEmail,
			Phone: d.CustomerPhone,
			Image: d.CustomerImage,
		},
		Service: ServiceInfo{
			Name:        d.TemplateName,
			Image:       d.TemplateImage,
			HourlyRate:  d.HourlyRate,
			DailyRate:   d.DailyRate,
			Description: d.ServiceDescription,
			IsApproved:  d.ServiceApproved,
		},
		Amount:        d.Amount,
		BookingDate:   d.BookingDate,
		PaymentStatus: d.PaymentStatus,
		BookingStatus: d.BookingStatus,
		CreatedAt:     d.CreatedAt,
	}
}

// BookingDetailLocation maps the joined address columns, nil when the
// address row is gone.
func BookingDetailLocation(d *repository.BookingDetail) *LocationInfo {
	if d.AddressLine == nil {
		return nil
	}

	loc := &LocationInfo{AddressLine: *d.AddressLine}
	if d.City != nil {
		loc.City = *d.City
	}
	if d.State != nil {
		loc.State = *d.State
	}
	if d.Zipcode != nil {
		loc.Zipcode = *d.Zipcode
	}
	return loc
}
