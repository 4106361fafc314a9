package quotations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/numbering"
	"github.com/villasol-erp/villasol-erp/internal/reservations"
	"github.com/villasol-erp/villasol-erp/internal/shared"
)

// ReservationCreator converts accepted quotations into bookings.
type ReservationCreator interface {
	Create(ctx context.Context, in reservations.CreateInput) (*reservations.View, error)
}

// Service manages the quotation lifecycle.
type Service struct {
	repo     Repository
	numbers  NumberSource
	bookings ReservationCreator
}

// NewService builds a Service instance.
func NewService(repo Repository, numbers NumberSource, bookings ReservationCreator) *Service {
	return &Service{repo: repo, numbers: numbers, bookings: bookings}
}

func buildLines(inputs []LineInput) ([]Line, decimal.Decimal, error) {
	total := decimal.Zero
	lines := make([]Line, 0, len(inputs))
	for i, in := range inputs {
		if in.Quantity.Sign() <= 0 || in.UnitPrice.Sign() < 0 {
			return nil, decimal.Zero, ledger.ErrInvalidAmount
		}
		lineTotal := in.Quantity.Mul(in.UnitPrice)
		lines = append(lines, Line{
			ID:          uuid.New(),
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LineTotal:   lineTotal,
			Order:       i + 1,
		})
		total = total.Add(lineTotal)
	}
	return lines, total, nil
}

// Create opens a new draft with a COT document number.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Quotation, error) {
	if !in.Currency.Valid() {
		return nil, ledger.ErrInvalidCurrency
	}
	if !in.CheckOut.After(in.CheckIn) {
		return nil, reservations.ErrInvalidStay
	}
	if in.ValidUntil.Before(time.Now()) {
		return nil, fmt.Errorf("quotations: validUntil is in the past: %w", ledger.ErrInvalidDate)
	}

	lines, total, err := buildLines(in.Lines)
	if err != nil {
		return nil, err
	}

	docNumber, err := s.numbers.Next(ctx, numbering.SeriesQuotation)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	q := Quotation{
		ID:         uuid.New(),
		DocNumber:  docNumber,
		VillaID:    in.VillaID,
		GuestName:  in.GuestName,
		GuestPhone: in.GuestPhone,
		Guests:     in.Guests,
		CheckIn:    in.CheckIn,
		CheckOut:   in.CheckOut,
		ValidUntil: in.ValidUntil,
		Status:     StatusDraft,
		Currency:   in.Currency,
		Total:      total,
		Notes:      in.Notes,
		Lines:      lines,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for i := range q.Lines {
		q.Lines[i].QuotationID = q.ID
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("quotations: create: %w", err)
	}
	return &q, nil
}

// Get loads a quotation with its lines.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of quotations.
func (s *Service) List(ctx context.Context, page, perPage int) (*Page, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	items, total, err := s.repo.List(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Pagination: shared.NewPagination(page, perPage, total)}, nil
}

// Update rewrites a draft. Sent and settled quotes are immutable.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Quotation, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != StatusDraft {
		return nil, fmt.Errorf("%w: only drafts can be updated", ErrInvalidStatus)
	}

	lines, total, err := buildLines(in.Lines)
	if err != nil {
		return nil, err
	}

	existing.GuestName = in.GuestName
	existing.GuestPhone = in.GuestPhone
	existing.Guests = in.Guests
	existing.ValidUntil = in.ValidUntil
	existing.Notes = in.Notes
	existing.Total = total
	existing.Lines = lines
	for i := range existing.Lines {
		existing.Lines[i].QuotationID = id
	}

	if err := s.repo.ReplaceDraft(ctx, *existing); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Send marks a draft as delivered to the guest.
func (s *Service) Send(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	return s.transition(ctx, id, StatusDraft, StatusSent)
}

// Accept marks a sent quotation as accepted.
func (s *Service) Accept(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	return s.transition(ctx, id, StatusSent, StatusAccepted)
}

// Reject marks a sent quotation as rejected.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	return s.transition(ctx, id, StatusSent, StatusRejected)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, from, to string) (*Quotation, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != from {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, existing.Status, to)
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Convert books an accepted quotation as a reservation carrying the
// quoted total. A quotation converts at most once.
func (s *Service) Convert(ctx context.Context, id uuid.UUID) (*reservations.View, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusAccepted {
		return nil, ErrNotAccepted
	}
	if q.ReservationID != nil {
		return nil, ErrConverted
	}

	view, err := s.bookings.Create(ctx, reservations.CreateInput{
		VillaID:     q.VillaID,
		GuestName:   q.GuestName,
		GuestPhone:  q.GuestPhone,
		Guests:      q.Guests,
		CheckIn:     q.CheckIn,
		CheckOut:    q.CheckOut,
		TotalAmount: q.Total,
		Currency:    q.Currency,
		Notes:       fmt.Sprintf("Converted from %s", q.DocNumber),
	})
	if err != nil {
		return nil, fmt.Errorf("quotations: convert %s: %w", q.DocNumber, err)
	}

	if err := s.repo.MarkConverted(ctx, id, view.Reservation.ID); err != nil {
		return nil, err
	}
	return view, nil
}
