package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
)

// PGRepository provides PostgreSQL backed catalog storage.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) CreateVilla(ctx context.Context, v Villa) error {
	query := `
		INSERT INTO villas (
			id, name, owner_id, owner_name, location, bedrooms,
			nightly_rate, currency, notes, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		v.ID, v.Name, v.OwnerID, v.OwnerName, v.Location, v.Bedrooms,
		v.NightlyRate, string(v.Currency), v.Notes, v.Active,
		v.CreatedAt, v.UpdatedAt,
	)
	return err
}

func (r *PGRepository) GetVilla(ctx context.Context, id uuid.UUID) (*Villa, error) {
	query := `
		SELECT id, name, owner_id, owner_name, location, bedrooms,
			nightly_rate, currency, notes, active, created_at, updated_at
		FROM villas
		WHERE id = $1`

	var v Villa
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.OwnerID, &v.OwnerName, &v.Location, &v.Bedrooms,
		&v.NightlyRate, &v.Currency, &v.Notes, &v.Active,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) ListVillas(ctx context.Context, page, perPage int) ([]Villa, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM villas").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, owner_id, owner_name, location, bedrooms,
			nightly_rate, currency, notes, active, created_at, updated_at
		FROM villas
		ORDER BY name
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var villas []Villa
	for rows.Next() {
		var v Villa
		err := rows.Scan(
			&v.ID, &v.Name, &v.OwnerID, &v.OwnerName, &v.Location, &v.Bedrooms,
			&v.NightlyRate, &v.Currency, &v.Notes, &v.Active,
			&v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		villas = append(villas, v)
	}
	return villas, total, rows.Err()
}

func (r *PGRepository) UpdateVilla(ctx context.Context, v Villa) error {
	query := `
		UPDATE villas
		SET name = $2, owner_id = $3, owner_name = $4, location = $5,
			bedrooms = $6, nightly_rate = $7, currency = $8, notes = $9,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		v.ID, v.Name, v.OwnerID, v.OwnerName, v.Location,
		v.Bedrooms, v.NightlyRate, string(v.Currency), v.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *PGRepository) DeactivateVilla(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE villas SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active",
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *PGRepository) CreateServiceItem(ctx context.Context, item ServiceItem) error {
	query := `
		INSERT INTO service_items (
			id, name, category, unit_price, currency, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.Name, item.Category, item.UnitPrice,
		string(item.Currency), item.Active, item.CreatedAt, item.UpdatedAt,
	)
	return err
}

func (r *PGRepository) GetServiceItem(ctx context.Context, id uuid.UUID) (*ServiceItem, error) {
	query := `
		SELECT id, name, category, unit_price, currency, active, created_at, updated_at
		FROM service_items
		WHERE id = $1`

	var item ServiceItem
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Category, &item.UnitPrice,
		&item.Currency, &item.Active, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) ListServiceItems(ctx context.Context, page, perPage int) ([]ServiceItem, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM service_items").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, category, unit_price, currency, active, created_at, updated_at
		FROM service_items
		ORDER BY category, name
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []ServiceItem
	for rows.Next() {
		var item ServiceItem
		err := rows.Scan(
			&item.ID, &item.Name, &item.Category, &item.UnitPrice,
			&item.Currency, &item.Active, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *PGRepository) UpdateServiceItem(ctx context.Context, item ServiceItem) error {
	query := `
		UPDATE service_items
		SET name = $2, category = $3, unit_price = $4, currency = $5, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		item.ID, item.Name, item.Category, item.UnitPrice, string(item.Currency),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *PGRepository) DeactivateServiceItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE service_items SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active",
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
