package usecase

import (
	"context"

	"service-booking/internal/apperr"
	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
	"service-booking/internal/dto/response"
	"service-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Invoice is the derived pricing breakdown plus the resolved entities it
// was computed from. It is recomputed on every request so displayed
// amounts always reflect current rates and config.
type Invoice struct {
	Provider     *entity.User
	Service      *entity.ProviderService
	Template     *entity.ServiceTemplate
	Calculations response.InvoiceBreakdown
}

type PricingService interface {
	ComputeInvoice(ctx context.Context, providerID, serviceID uuid.UUID) (*Invoice, error)
}

type pricingService struct {
	repo   *repository.Repository
	config utils.PricingConfig
	log    *zap.Logger
}

// NewPricingService builds the calculator around a fixed PricingConfig;
// the constants are never re-read after construction.
func NewPricingService(repo *repository.Repository, config utils.PricingConfig, log *zap.Logger) PricingService {
	return &pricingService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "pricing")),
	}
}

func (s *pricingService) ComputeInvoice(ctx context.Context, providerID, serviceID uuid.UUID) (*Invoice, error) {
	provider, err := s.repo.User.FindByID(ctx, providerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}
	if provider == nil {
		return nil, apperr.New(apperr.KindNotFound, "Provider not found")
	}

	service, err := s.repo.ProviderService.FindByIDWithTemplate(ctx, serviceID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error", err)
	}
	if service == nil {
		return nil, apperr.New(apperr.KindNotFound, "Provider service not found")
	}

	template := service.Template

	dailyRate := decimal.Zero
	if service.DailyRate != nil {
		dailyRate = decimal.NewFromFloat(*service.DailyRate)
	}

	hundred := decimal.NewFromInt(100)
	tokenPercent := decimal.NewFromFloat(template.TokenAmountPercent)
	convenienceFee := decimal.NewFromFloat(template.ConvenienceFee)
	discount := decimal.NewFromFloat(s.config.DiscountAmount)
	additionalCost := decimal.NewFromFloat(s.config.AdditionalCost)
	igstPercent := decimal.NewFromFloat(s.config.IgstTaxPercent)
	sgstPercent := decimal.NewFromFloat(s.config.SgstTaxPercent)

	tokenAmount := dailyRate.Mul(tokenPercent).Div(hundred).Round(2)
	baseAmount := tokenAmount.Add(convenienceFee).Add(additionalCost).Sub(discount)

	igstTaxAmount := baseAmount.Mul(igstPercent).Div(hundred).Round(2)
	sgstTaxAmount := baseAmount.Mul(sgstPercent).Div(hundred).Round(2)

	paidOnline := baseAmount.Add(igstTaxAmount).Add(sgstTaxAmount)
	payToProvider := dailyRate.Sub(tokenAmount)

	return &Invoice{
		Provider: provider,
		Service:  service,
		Template: template,
		Calculations: response.InvoiceBreakdown{
			Discount:       discount.InexactFloat64(),
			AdditionalCost: additionalCost.InexactFloat64(),
			IgstTaxAmount:  igstTaxAmount.InexactFloat64(),
			SgstTaxAmount:  sgstTaxAmount.InexactFloat64(),
			ConvenienceFee: convenienceFee.InexactFloat64(),
			TokenAmount:    tokenAmount.InexactFloat64(),
			PaidOnline:     paidOnline.InexactFloat64(),
			PayToProvider:  payToProvider.InexactFloat64(),
			DailyRate:      dailyRate.InexactFloat64(),
		},
	}, nil
}
