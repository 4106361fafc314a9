package quotations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
)

// PGRepository provides PostgreSQL backed quotation storage.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const quotationColumns = `
	id, doc_number, villa_id, guest_name, guest_phone, guests,
	check_in, check_out, valid_until, status, currency, total, notes,
	reservation_id, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, q Quotation) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("quotations: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO quotations (` + quotationColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = tx.Exec(ctx, query,
		q.ID, q.DocNumber, q.VillaID, q.GuestName, q.GuestPhone, q.Guests,
		q.CheckIn, q.CheckOut, q.ValidUntil, q.Status, string(q.Currency),
		q.Total, q.Notes, q.ReservationID, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertLines(ctx, tx, q.ID, q.Lines); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertLines(ctx context.Context, tx pgx.Tx, quotationID uuid.UUID, lines []Line) error {
	query := `
		INSERT INTO quotation_lines (
			id, quotation_id, description, quantity, unit_price, line_total, line_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, line := range lines {
		_, err := tx.Exec(ctx, query,
			line.ID, quotationID, line.Description, line.Quantity,
			line.UnitPrice, line.LineTotal, line.Order,
		)
		if err != nil {
			return fmt.Errorf("quotations: insert line: %w", err)
		}
	}
	return nil
}

func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	query := "SELECT " + quotationColumns + " FROM quotations WHERE id = $1"

	var q Quotation
	var reservationID pgtype.UUID
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.DocNumber, &q.VillaID, &q.GuestName, &q.GuestPhone, &q.Guests,
		&q.CheckIn, &q.CheckOut, &q.ValidUntil, &q.Status, &q.Currency,
		&q.Total, &q.Notes, &reservationID, &q.CreatedAt, &q.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if reservationID.Valid {
		v := uuid.UUID(reservationID.Bytes)
		q.ReservationID = &v
	}

	lines, err := r.listLines(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Lines = lines
	return &q, nil
}

func (r *PGRepository) listLines(ctx context.Context, quotationID uuid.UUID) ([]Line, error) {
	query := `
		SELECT id, quotation_id, description, quantity, unit_price, line_total, line_order
		FROM quotation_lines
		WHERE quotation_id = $1
		ORDER BY line_order`

	rows, err := r.pool.Query(ctx, query, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var line Line
		err := rows.Scan(
			&line.ID, &line.QuotationID, &line.Description, &line.Quantity,
			&line.UnitPrice, &line.LineTotal, &line.Order,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *PGRepository) List(ctx context.Context, page, perPage int) ([]Quotation, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM quotations").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + quotationColumns + `
		FROM quotations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quotes []Quotation
	for rows.Next() {
		var q Quotation
		var reservationID pgtype.UUID
		err := rows.Scan(
			&q.ID, &q.DocNumber, &q.VillaID, &q.GuestName, &q.GuestPhone, &q.Guests,
			&q.CheckIn, &q.CheckOut, &q.ValidUntil, &q.Status, &q.Currency,
			&q.Total, &q.Notes, &reservationID, &q.CreatedAt, &q.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		if reservationID.Valid {
			v := uuid.UUID(reservationID.Bytes)
			q.ReservationID = &v
		}
		quotes = append(quotes, q)
	}
	return quotes, total, rows.Err()
}

// ReplaceDraft rewrites the header and lines of a draft in one
// transaction.
func (r *PGRepository) ReplaceDraft(ctx context.Context, q Quotation) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("quotations: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE quotations
		SET guest_name = $2, guest_phone = $3, guests = $4, valid_until = $5,
			total = $6, notes = $7, updated_at = NOW()
		WHERE id = $1 AND status = $8`

	tag, err := tx.Exec(ctx, query,
		q.ID, q.GuestName, q.GuestPhone, q.Guests, q.ValidUntil,
		q.Total, q.Notes, StatusDraft,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}

	if _, err := tx.Exec(ctx, "DELETE FROM quotation_lines WHERE quotation_id = $1", q.ID); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, q.ID, q.Lines); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE quotations SET status = $2, updated_at = NOW() WHERE id = $1",
		id, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *PGRepository) MarkConverted(ctx context.Context, id, reservationID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE quotations SET reservation_id = $2, updated_at = NOW() WHERE id = $1 AND reservation_id IS NULL",
		id, reservationID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConverted
	}
	return nil
}
