package quotations

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
	"github.com/villasol-erp/villasol-erp/internal/reservations"
)

type memoryRepo struct {
	quotations map[uuid.UUID]*Quotation
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{quotations: make(map[uuid.UUID]*Quotation)}
}

func (m *memoryRepo) Create(_ context.Context, q Quotation) error {
	m.quotations[q.ID] = &q
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id uuid.UUID) (*Quotation, error) {
	q, ok := m.quotations[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	clone := *q
	clone.Lines = append([]Line(nil), q.Lines...)
	return &clone, nil
}

func (m *memoryRepo) List(_ context.Context, _, _ int) ([]Quotation, int, error) {
	out := make([]Quotation, 0, len(m.quotations))
	for _, q := range m.quotations {
		out = append(out, *q)
	}
	return out, len(out), nil
}

func (m *memoryRepo) ReplaceDraft(_ context.Context, q Quotation) error {
	existing, ok := m.quotations[q.ID]
	if !ok || existing.Status != StatusDraft {
		return httpx.ErrNotFound
	}
	m.quotations[q.ID] = &q
	return nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	q, ok := m.quotations[id]
	if !ok {
		return httpx.ErrNotFound
	}
	q.Status = status
	return nil
}

func (m *memoryRepo) MarkConverted(_ context.Context, id, reservationID uuid.UUID) error {
	q, ok := m.quotations[id]
	if !ok {
		return httpx.ErrNotFound
	}
	if q.ReservationID != nil {
		return ErrConverted
	}
	q.ReservationID = &reservationID
	return nil
}

type stubNumbers struct{ n int }

func (s *stubNumbers) Next(_ context.Context, series string) (string, error) {
	s.n++
	return fmt.Sprintf("%s-%06d", series, s.n), nil
}

type stubBookings struct {
	created []reservations.CreateInput
}

func (s *stubBookings) Create(_ context.Context, in reservations.CreateInput) (*reservations.View, error) {
	s.created = append(s.created, in)
	return &reservations.View{
		Reservation: reservations.Reservation{
			ID:        uuid.New(),
			VillaID:   in.VillaID,
			GuestName: in.GuestName,
			CheckIn:   in.CheckIn,
			CheckOut:  in.CheckOut,
		},
	}, nil
}

func newTestService() (*Service, *stubBookings) {
	bookings := &stubBookings{}
	return NewService(newMemoryRepo(), &stubNumbers{}, bookings), bookings
}

func validInput() CreateInput {
	return CreateInput{
		VillaID:    uuid.New(),
		GuestName:  "Luis Gómez",
		Guests:     2,
		CheckIn:    time.Now().AddDate(0, 1, 0),
		CheckOut:   time.Now().AddDate(0, 1, 3),
		ValidUntil: time.Now().AddDate(0, 0, 14),
		Currency:   ledger.CurrencyUSD,
		Lines: []LineInput{
			{Description: "3 noches Villa Mar", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("250")},
			{Description: "Chef privado", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("120")},
		},
	}
}

func TestCreateComputesTotalAndNumber(t *testing.T) {
	svc, _ := newTestService()

	quote, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, "COT-000001", quote.DocNumber)
	require.Equal(t, StatusDraft, quote.Status)
	require.True(t, quote.Total.Equal(decimal.RequireFromString("870")))
	require.Len(t, quote.Lines, 2)
}

func TestCreateRejectsBadLines(t *testing.T) {
	svc, _ := newTestService()

	in := validInput()
	in.Lines[0].Quantity = decimal.Zero
	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestLifecycleGuards(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	quote, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Accept(ctx, quote.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)

	sent, err := svc.Send(ctx, quote.ID)
	require.NoError(t, err)
	require.Equal(t, StatusSent, sent.Status)

	_, err = svc.Send(ctx, quote.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)

	accepted, err := svc.Accept(ctx, quote.ID)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, accepted.Status)

	_, err = svc.Reject(ctx, quote.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateOnlyDrafts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	quote, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, quote.ID, UpdateInput{
		GuestName:  "Luis G. Marte",
		Guests:     3,
		ValidUntil: quote.ValidUntil,
		Lines: []LineInput{
			{Description: "4 noches", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.RequireFromString("250")},
		},
	})
	require.NoError(t, err)
	require.True(t, updated.Total.Equal(decimal.RequireFromString("1000")))

	_, err = svc.Send(ctx, quote.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, quote.ID, UpdateInput{GuestName: "x", ValidUntil: quote.ValidUntil, Lines: quoteLines(quote)})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func quoteLines(q *Quotation) []LineInput {
	lines := make([]LineInput, 0, len(q.Lines))
	for _, line := range q.Lines {
		lines = append(lines, LineInput{Description: line.Description, Quantity: line.Quantity, UnitPrice: line.UnitPrice})
	}
	return lines
}

func TestConvertRequiresAcceptance(t *testing.T) {
	svc, bookings := newTestService()
	ctx := context.Background()

	quote, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Convert(ctx, quote.ID)
	require.ErrorIs(t, err, ErrNotAccepted)

	_, err = svc.Send(ctx, quote.ID)
	require.NoError(t, err)
	_, err = svc.Accept(ctx, quote.ID)
	require.NoError(t, err)

	view, err := svc.Convert(ctx, quote.ID)
	require.NoError(t, err)
	require.Len(t, bookings.created, 1)
	require.True(t, bookings.created[0].TotalAmount.Equal(quote.Total))
	require.Equal(t, quote.GuestName, view.Reservation.GuestName)

	_, err = svc.Convert(ctx, quote.ID)
	require.ErrorIs(t, err, ErrConverted)
}
