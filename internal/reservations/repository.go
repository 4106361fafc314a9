package reservations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
)

// PGRepository provides PostgreSQL backed reservation storage.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const reservationColumns = `
	id, entity_id, villa_id, guest_name, guest_phone, guests,
	check_in, check_out, notes, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, res Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		res.ID, res.EntityID, res.VillaID, res.GuestName, res.GuestPhone,
		res.Guests, res.CheckIn, res.CheckOut, res.Notes,
		res.CreatedAt, res.UpdatedAt,
	)
	return err
}

func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	return r.getBy(ctx, "id", id)
}

func (r *PGRepository) GetByEntity(ctx context.Context, entityID uuid.UUID) (*Reservation, error) {
	return r.getBy(ctx, "entity_id", entityID)
}

func (r *PGRepository) getBy(ctx context.Context, column string, id uuid.UUID) (*Reservation, error) {
	query := "SELECT " + reservationColumns + " FROM reservations WHERE " + column + " = $1"

	var res Reservation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.EntityID, &res.VillaID, &res.GuestName, &res.GuestPhone,
		&res.Guests, &res.CheckIn, &res.CheckOut, &res.Notes,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *PGRepository) List(ctx context.Context, page, perPage int) ([]Reservation, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM reservations").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + reservationColumns + `
		FROM reservations
		ORDER BY check_in DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reservations []Reservation
	for rows.Next() {
		var res Reservation
		err := rows.Scan(
			&res.ID, &res.EntityID, &res.VillaID, &res.GuestName, &res.GuestPhone,
			&res.Guests, &res.CheckIn, &res.CheckOut, &res.Notes,
			&res.CreatedAt, &res.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		reservations = append(reservations, res)
	}
	return reservations, total, rows.Err()
}

func (r *PGRepository) Update(ctx context.Context, res Reservation) error {
	query := `
		UPDATE reservations
		SET guest_name = $2, guest_phone = $3, guests = $4, notes = $5,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		res.ID, res.GuestName, res.GuestPhone, res.Guests, res.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
