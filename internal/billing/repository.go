package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGRepository provides PostgreSQL backed persistence for billable
// entities and ledger entries.
type PGRepository struct {
	pool *pgxpool.Pool
	q    querier
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool, q: pool}
}

// CreateEntity inserts a billable entity.
func (r *PGRepository) CreateEntity(ctx context.Context, entity ledger.Entity) error {
	query := `
		INSERT INTO billable_entities (
			id, kind, description, owner_id, original_amount, currency,
			reference_date, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.q.Exec(ctx, query,
		entity.ID,
		string(entity.Kind),
		entity.Description,
		entity.OwnerID,
		entity.OriginalAmount,
		string(entity.Currency),
		entity.ReferenceDate,
		entity.Notes,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httpx.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetEntity loads an entity with its entries in registration order.
func (r *PGRepository) GetEntity(ctx context.Context, id uuid.UUID) (*ledger.Entity, error) {
	query := `
		SELECT id, kind, description, owner_id, original_amount, currency,
			reference_date, notes, deleted_at, created_at, updated_at
		FROM billable_entities
		WHERE id = $1`

	var entity ledger.Entity
	var deletedAt pgtype.Timestamptz
	err := r.q.QueryRow(ctx, query, id).Scan(
		&entity.ID, &entity.Kind, &entity.Description, &entity.OwnerID,
		&entity.OriginalAmount, &entity.Currency,
		&entity.ReferenceDate, &entity.Notes, &deletedAt,
		&entity.CreatedAt, &entity.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		entity.DeletedAt = &deletedAt.Time
	}

	entries, err := r.listEntries(ctx, id)
	if err != nil {
		return nil, err
	}
	entity.Entries = entries
	return &entity, nil
}

// ListEntities returns every entity, soft-deleted ones included, with
// entries loaded. Filtering is the caller's concern.
func (r *PGRepository) ListEntities(ctx context.Context) ([]ledger.Entity, error) {
	query := `
		SELECT id, kind, description, owner_id, original_amount, currency,
			reference_date, notes, deleted_at, created_at, updated_at
		FROM billable_entities
		ORDER BY reference_date DESC, created_at DESC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []ledger.Entity
	for rows.Next() {
		var entity ledger.Entity
		var deletedAt pgtype.Timestamptz
		err := rows.Scan(
			&entity.ID, &entity.Kind, &entity.Description, &entity.OwnerID,
			&entity.OriginalAmount, &entity.Currency,
			&entity.ReferenceDate, &entity.Notes, &deletedAt,
			&entity.CreatedAt, &entity.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if deletedAt.Valid {
			entity.DeletedAt = &deletedAt.Time
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entities {
		entries, err := r.listEntries(ctx, entities[i].ID)
		if err != nil {
			return nil, err
		}
		entities[i].Entries = entries
	}
	return entities, nil
}

func (r *PGRepository) listEntries(ctx context.Context, entityID uuid.UUID) ([]ledger.Entry, error) {
	query := `
		SELECT id, entity_id, amount, currency, method, payment_date,
			reference_number, notes, created_at
		FROM ledger_entries
		WHERE entity_id = $1
		ORDER BY seq`

	rows, err := r.q.Query(ctx, query, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		err := rows.Scan(
			&entry.ID, &entry.EntityID, &entry.Amount, &entry.Currency,
			&entry.Method, &entry.PaymentDate, &entry.ReferenceNumber,
			&entry.Notes, &entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpdateEntityInfo patches description and notes only. Ledger fields are
// immutable by schema and by this method's column list.
func (r *PGRepository) UpdateEntityInfo(ctx context.Context, id uuid.UUID, description, notes string) error {
	query := `
		UPDATE billable_entities
		SET description = $2, notes = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.q.Exec(ctx, query, id, description, notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// SoftDeleteEntity marks an entity deleted. Entries remain owned by it.
func (r *PGRepository) SoftDeleteEntity(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE billable_entities
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// InsertEntry appends a ledger entry. The seq column records registration
// order.
func (r *PGRepository) InsertEntry(ctx context.Context, entry ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (
			id, entity_id, amount, currency, method, payment_date,
			reference_number, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.q.Exec(ctx, query,
		entry.ID,
		entry.EntityID,
		entry.Amount,
		string(entry.Currency),
		string(entry.Method),
		entry.PaymentDate,
		entry.ReferenceNumber,
		entry.Notes,
		entry.CreatedAt,
	)
	return err
}

// DeleteEntry removes an entry belonging to the entity.
func (r *PGRepository) DeleteEntry(ctx context.Context, entityID, entryID uuid.UUID) error {
	tag, err := r.q.Exec(ctx,
		"DELETE FROM ledger_entries WHERE id = $1 AND entity_id = $2",
		entryID, entityID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Mutate runs fn inside a repeatable-read transaction holding a row lock
// on the entity, serializing concurrent mutations per entity.
func (r *PGRepository) Mutate(ctx context.Context, entityID uuid.UUID, fn func(ctx context.Context, repo Repository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("billing: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked uuid.UUID
	err = tx.QueryRow(ctx,
		"SELECT id FROM billable_entities WHERE id = $1 FOR UPDATE",
		entityID,
	).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return httpx.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := fn(ctx, &PGRepository{pool: r.pool, q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
