package repository

import (
	"service-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User            UserRepository
	Session         SessionRepository
	ProviderService ProviderServiceRepository
	Address         AddressRepository
	Booking         BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:            NewUserRepository(db, log),
		Session:         NewSessionRepository(db, log),
		ProviderService: NewProviderServiceRepository(db, log),
		Address:         NewAddressRepository(db, log),
		Booking:         NewBookingRepository(db, log),
	}
}
