package usecase

import (
	"service-booking/internal/data/repository"
	"service-booking/internal/gateway"
	"service-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Pricing      PricingService
	Booking      BookingService
	BookingQuery BookingQueryService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	gw := gateway.NewRazorpay(config.Razorpay, log)
	pricing := NewPricingService(repo, config.Pricing, log)

	return &Service{
		Pricing:      pricing,
		Booking:      NewBookingService(repo, pricing, gw, log),
		BookingQuery: NewBookingQueryService(repo, pricing, log),
	}
}
