package usecase

import (
	"context"
	"testing"
	"time"

	"service-booking/internal/apperr"
	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
	"service-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

type fakeProviderServiceRepo struct {
	services map[uuid.UUID]*entity.ProviderService
}

func (f *fakeProviderServiceRepo) FindByIDWithTemplate(ctx context.Context, id uuid.UUID) (*entity.ProviderService, error) {
	return f.services[id], nil
}

func floatPtr(v float64) *float64 { return &v }

// newPricingFixture seeds one provider offering one templated service.
func newPricingFixture(dailyRate *float64, tokenPercent, convenienceFee float64, cfg utils.PricingConfig) (PricingService, uuid.UUID, uuid.UUID) {
	providerID := uuid.New()
	serviceID := uuid.New()

	provider := &entity.User{
		Base: entity.Base{ID: providerID, CreatedAt: time.Now()},
		Name: "Asha Electric Works",
		Role: entity.RoleProvider,
	}

	template := &entity.ServiceTemplate{
		BaseSimple:         entity.BaseSimple{ID: uuid.New()},
		Name:               "Electrical Repair",
		IsApproved:         true,
		TokenAmountPercent: tokenPercent,
		ConvenienceFee:     convenienceFee,
	}

	service := &entity.ProviderService{
		BaseSimple: entity.BaseSimple{ID: serviceID},
		ProviderID: providerID,
		TemplateID: template.ID,
		DailyRate:  dailyRate,
		IsApproved: true,
		Template:   template,
	}

	repo := &repository.Repository{
		User:            &fakeUserRepo{users: map[uuid.UUID]*entity.User{providerID: provider}},
		ProviderService: &fakeProviderServiceRepo{services: map[uuid.UUID]*entity.ProviderService{serviceID: service}},
	}

	return NewPricingService(repo, cfg, zap.NewNop()), providerID, serviceID
}

func TestComputeInvoiceExample(t *testing.T) {
	cfg := utils.PricingConfig{
		DiscountAmount: 0,
		AdditionalCost: 0,
		IgstTaxPercent: 9,
		SgstTaxPercent: 9,
	}
	svc, providerID, serviceID := newPricingFixture(floatPtr(1000), 20, 50, cfg)

	invoice, err := svc.ComputeInvoice(context.Background(), providerID, serviceID)
	require.NoError(t, err)

	calc := invoice.Calculations
	assert.InDelta(t, 200.0, calc.TokenAmount, 1e-9)
	assert.InDelta(t, 22.5, calc.IgstTaxAmount, 1e-9)
	assert.InDelta(t, 22.5, calc.SgstTaxAmount, 1e-9)
	assert.InDelta(t, 50.0, calc.ConvenienceFee, 1e-9)
	assert.InDelta(t, 295.0, calc.PaidOnline, 1e-9)
	assert.InDelta(t, 800.0, calc.PayToProvider, 1e-9)
	assert.InDelta(t, 1000.0, calc.DailyRate, 1e-9)

	assert.Equal(t, "Asha Electric Works", invoice.Provider.Name)
	assert.Equal(t, "Electrical Repair", invoice.Template.Name)
}

func TestComputeInvoiceIdentities(t *testing.T) {
	tests := []struct {
		name           string
		dailyRate      *float64
		tokenPercent   float64
		convenienceFee float64
		cfg            utils.PricingConfig
	}{
		{
			name:           "with discount and additional cost",
			dailyRate:      floatPtr(2500),
			tokenPercent:   15,
			convenienceFee: 99,
			cfg:            utils.PricingConfig{DiscountAmount: 25, AdditionalCost: 40, IgstTaxPercent: 9, SgstTaxPercent: 9},
		},
		{
			name:           "zero taxes",
			dailyRate:      floatPtr(750),
			tokenPercent:   30,
			convenienceFee: 20,
			cfg:            utils.PricingConfig{},
		},
		{
			name:           "unset daily rate treated as zero",
			dailyRate:      nil,
			tokenPercent:   20,
			convenienceFee: 50,
			cfg:            utils.PricingConfig{IgstTaxPercent: 18, SgstTaxPercent: 18},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, providerID, serviceID := newPricingFixture(tt.dailyRate, tt.tokenPercent, tt.convenienceFee, tt.cfg)

			invoice, err := svc.ComputeInvoice(context.Background(), providerID, serviceID)
			require.NoError(t, err)
			calc := invoice.Calculations

			assert.InDelta(t, calc.DailyRate*tt.tokenPercent/100, calc.TokenAmount, 1e-9)
			assert.InDelta(t,
				calc.TokenAmount+calc.ConvenienceFee+calc.AdditionalCost-calc.Discount+calc.IgstTaxAmount+calc.SgstTaxAmount,
				calc.PaidOnline, 1e-9)
			assert.InDelta(t, calc.DailyRate-calc.TokenAmount, calc.PayToProvider, 1e-9)
		})
	}
}

func TestComputeInvoiceRecomputesFromConfig(t *testing.T) {
	// Two calculators over the same data but different constants must
	// disagree: nothing is cached on the booking side.
	first, providerID, serviceID := newPricingFixture(floatPtr(1000), 20, 50,
		utils.PricingConfig{IgstTaxPercent: 9, SgstTaxPercent: 9})
	second, providerID2, serviceID2 := newPricingFixture(floatPtr(1000), 20, 50,
		utils.PricingConfig{IgstTaxPercent: 18, SgstTaxPercent: 18})

	a, err := first.ComputeInvoice(context.Background(), providerID, serviceID)
	require.NoError(t, err)
	b, err := second.ComputeInvoice(context.Background(), providerID2, serviceID2)
	require.NoError(t, err)

	assert.InDelta(t, 295.0, a.Calculations.PaidOnline, 1e-9)
	assert.InDelta(t, 340.0, b.Calculations.PaidOnline, 1e-9)
}

func TestComputeInvoiceNotFound(t *testing.T) {
	svc, providerID, serviceID := newPricingFixture(floatPtr(1000), 20, 50, utils.PricingConfig{})

	_, err := svc.ComputeInvoice(context.Background(), uuid.New(), serviceID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Provider not found", apperr.MessageOf(err))

	_, err = svc.ComputeInvoice(context.Background(), providerID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Provider service not found", apperr.MessageOf(err))
}
