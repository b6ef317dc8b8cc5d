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

// ProviderServiceRepository is the booking core's view of the catalog.
type ProviderServiceRepository interface {
	FindByIDWithTemplate(ctx context.Context, id uuid.UUID) (*entity.ProviderService, error)
}

type providerServiceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProviderServiceRepository(db database.PgxIface, log *zap.Logger) ProviderServiceRepository {
	return &providerServiceRepository{
		db:  db,
		log: log.With(zap.String("repository", "provider_service")),
	}
}

func (r *providerServiceRepository) FindByIDWithTemplate(ctx context.Context, id uuid.UUID) (*entity.ProviderService, error) {
	query := `
		SELECT s.id, s.provider_id, s.template_id, s.hourly_rate, s.daily_rate,
		       s.description, s.is_approved, s.created_at,
		       t.id, t.name, t.image, t.is_approved,
		       t.token_amount_percent, t.convenience_fee, t.created_at
		FROM provider_services s
		JOIN service_templates t ON t.id = s.template_id
		WHERE s.id = $1
	`

	var svc entity.ProviderService
	var tpl entity.ServiceTemplate
	err := r.db.QueryRow(ctx, query, id).Scan(
		&svc.ID,
		&svc.ProviderID,
		&svc.TemplateID,
		&svc.HourlyRate,
		&svc.DailyRate,
		&svc.Description,
		&svc.IsApproved,
		&svc.CreatedAt,
		&tpl.ID,
		&tpl.Name,
		&tpl.Image,
		&tpl.IsApproved,
		&tpl.TokenAmountPercent,
		&tpl.ConvenienceFee,
		&tpl.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find provider service by ID",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return nil, fmt.Errorf("find provider service by ID %s: %w", id.String(), err)
	}

	svc.Template = &tpl
	return &svc, nil
}
