package entity

import (
	"github.com/google/uuid"
)

// ServiceTemplate is the admin-approved catalog entry a provider prices.
// TokenAmountPercent and ConvenienceFee feed the invoice calculation.
type ServiceTemplate struct {
	BaseSimple
	Name               string  `db:"name"`
	Image              *string `db:"image"`
	IsApproved         bool    `db:"is_approved"`
	TokenAmountPercent float64 `db:"token_amount_percent"`
	ConvenienceFee     float64 `db:"convenience_fee"`
}

// ProviderService is a provider's priced offering of a template.
type ProviderService struct {
	BaseSimple
	ProviderID  uuid.UUID `db:"provider_id"`
	TemplateID  uuid.UUID `db:"template_id"`
	HourlyRate  *float64  `db:"hourly_rate"`
	DailyRate   *float64  `db:"daily_rate"`
	Description string    `db:"description"`
	IsApproved  bool      `db:"is_approved"`

	// Populated by FindByIDWithTemplate
	Template *ServiceTemplate `db:"-"`
}
