package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdocs/shipcert/internal/common"
	"github.com/fleetdocs/shipcert/internal/entity"
)

// ShipRepository resolves the target ship the batch files against and stores
// derived docking dates.
type ShipRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Ship, error)
	GetByIMO(ctx context.Context, imo string) (*entity.Ship, error)
	UpdateDockingDates(ctx context.Context, id uuid.UUID, last time.Time, last2 *time.Time) error
}

type PgShipRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewShipRepository(pool *pgxpool.Pool, logger *slog.Logger) *PgShipRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PgShipRepository{pool: pool, logger: logger}
}

const shipColumns = `id, name, imo, last_docking, last_docking_2, created_at, updated_at`

func (r *PgShipRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Ship, error) {
	return r.get(ctx, `SELECT `+shipColumns+` FROM ships WHERE id = $1`, id)
}

func (r *PgShipRepository) GetByIMO(ctx context.Context, imo string) (*entity.Ship, error) {
	return r.get(ctx, `SELECT `+shipColumns+` FROM ships WHERE imo = $1`, imo)
}

func (r *PgShipRepository) get(ctx context.Context, query string, arg any) (*entity.Ship, error) {
	var s entity.Ship
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.Name, &s.IMO, &s.LastDocking, &s.LastDocking2, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ship: %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, dbError("get ship", err)
	}
	return &s, nil
}

func (r *PgShipRepository) UpdateDockingDates(ctx context.Context, id uuid.UUID, last time.Time, last2 *time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE ships
		SET last_docking = $2, last_docking_2 = $3, updated_at = now()
		WHERE id = $1
	`, id, last, last2)
	if err != nil {
		r.logger.Error("docking date update failed", "ship_id", id, "error", err)
		return dbError("update docking dates", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ship %s: %w", id, common.ErrNotFound)
	}
	return nil
}
