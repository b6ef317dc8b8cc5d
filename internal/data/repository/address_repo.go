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

// AddressRepository is the booking core's view of the address book.
type AddressRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Address, error)
}

type addressRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAddressRepository(db database.PgxIface, log *zap.Logger) AddressRepository {
	return &addressRepository{
		db:  db,
		log: log.With(zap.String("repository", "address")),
	}
}

func (r *addressRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	query := `
		SELECT id, user_id, address_line, city, state, zipcode, created_at
		FROM addresses
		WHERE id = $1
	`

	var address entity.Address
	err := r.db.QueryRow(ctx, query, id).Scan(
		&address.ID,
		&address.UserID,
		&address.AddressLine,
		&address.City,
		&address.State,
		&address.Zipcode,
		&address.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find address by ID",
			zap.Error(err),
			zap.String("address_id", id.String()),
		)
		return nil, fmt.Errorf("find address by ID %s: %w", id.String(), err)
	}

	return &address, nil
}
