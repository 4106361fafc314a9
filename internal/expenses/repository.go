package expenses

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
)

// PGRepository provides PostgreSQL backed expense storage.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, exp Expense) error {
	query := `
		INSERT INTO expenses (
			id, entity_id, villa_id, category, supplier_name, incurred_on,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		exp.ID, exp.EntityID, exp.VillaID, exp.Category, exp.SupplierName,
		exp.IncurredOn, exp.CreatedAt, exp.UpdatedAt,
	)
	return err
}

func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	query := `
		SELECT id, entity_id, villa_id, category, supplier_name, incurred_on,
			created_at, updated_at
		FROM expenses
		WHERE id = $1`

	var exp Expense
	var villaID pgtype.UUID
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&exp.ID, &exp.EntityID, &villaID, &exp.Category, &exp.SupplierName,
		&exp.IncurredOn, &exp.CreatedAt, &exp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if villaID.Valid {
		v := uuid.UUID(villaID.Bytes)
		exp.VillaID = &v
	}
	return &exp, nil
}

func (r *PGRepository) List(ctx context.Context, page, perPage int) ([]Expense, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM expenses").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, entity_id, villa_id, category, supplier_name, incurred_on,
			created_at, updated_at
		FROM expenses
		ORDER BY incurred_on DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var expensesOut []Expense
	for rows.Next() {
		var exp Expense
		var villaID pgtype.UUID
		err := rows.Scan(
			&exp.ID, &exp.EntityID, &villaID, &exp.Category, &exp.SupplierName,
			&exp.IncurredOn, &exp.CreatedAt, &exp.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		if villaID.Valid {
			v := uuid.UUID(villaID.Bytes)
			exp.VillaID = &v
		}
		expensesOut = append(expensesOut, exp)
	}
	return expensesOut, total, rows.Err()
}

func (r *PGRepository) Update(ctx context.Context, exp Expense) error {
	query := `
		UPDATE expenses
		SET category = $2, supplier_name = $3, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, exp.ID, exp.Category, exp.SupplierName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
