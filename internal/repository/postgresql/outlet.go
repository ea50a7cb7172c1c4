package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/outlet"
	"github.com/attenda-hq/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type outletRepository struct {
	db *database.DB
}

func NewOutletRepository(db *database.DB) outlet.OutletRepository {
	return &outletRepository{db: db}
}

const outletColumns = `
	id, name, address, latitude, longitude, radius_meters,
	is_active, created_at, updated_at`

func scanOutlet(row pgx.Row) (outlet.Outlet, error) {
	var o outlet.Outlet
	err := row.Scan(
		&o.ID, &o.Name, &o.Address, &o.Latitude, &o.Longitude, &o.RadiusMeters,
		&o.IsActive, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// GetByID implements outlet.OutletRepository.
func (r *outletRepository) GetByID(ctx context.Context, id string) (outlet.Outlet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + outletColumns + ` FROM outlets WHERE id = $1`

	o, err := scanOutlet(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return outlet.Outlet{}, pgx.ErrNoRows
		}
		return outlet.Outlet{}, fmt.Errorf("failed to get outlet: %w", err)
	}

	return o, nil
}

// GetByIDs implements outlet.OutletRepository.
func (r *outletRepository) GetByIDs(ctx context.Context, ids []string) ([]outlet.Outlet, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT` + outletColumns + ` FROM outlets WHERE id = ANY($1)`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get outlets: %w", err)
	}
	defer rows.Close()

	var outlets []outlet.Outlet
	for rows.Next() {
		o, err := scanOutlet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outlet: %w", err)
		}
		outlets = append(outlets, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outlets: %w", err)
	}

	return outlets, nil
}

// List implements outlet.OutletRepository.
func (r *outletRepository) List(ctx context.Context) ([]outlet.Outlet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + outletColumns + ` FROM outlets ORDER BY name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list outlets: %w", err)
	}
	defer rows.Close()

	var outlets []outlet.Outlet
	for rows.Next() {
		o, err := scanOutlet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outlet: %w", err)
		}
		outlets = append(outlets, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outlets: %w", err)
	}

	return outlets, nil
}
