package reservations

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/villasol-erp/villasol-erp/internal/billing"
	"github.com/villasol-erp/villasol-erp/internal/catalog"
	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
)

type memoryRepo struct {
	reservations map[uuid.UUID]*Reservation
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{reservations: make(map[uuid.UUID]*Reservation)}
}

func (m *memoryRepo) Create(_ context.Context, res Reservation) error {
	m.reservations[res.ID] = &res
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id uuid.UUID) (*Reservation, error) {
	res, ok := m.reservations[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	clone := *res
	return &clone, nil
}

func (m *memoryRepo) GetByEntity(_ context.Context, entityID uuid.UUID) (*Reservation, error) {
	for _, res := range m.reservations {
		if res.EntityID == entityID {
			clone := *res
			return &clone, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (m *memoryRepo) List(_ context.Context, _, _ int) ([]Reservation, int, error) {
	out := make([]Reservation, 0, len(m.reservations))
	for _, res := range m.reservations {
		out = append(out, *res)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Update(_ context.Context, res Reservation) error {
	if _, ok := m.reservations[res.ID]; !ok {
		return httpx.ErrNotFound
	}
	m.reservations[res.ID] = &res
	return nil
}

type memoryBillingRepo struct {
	entities map[uuid.UUID]*ledger.Entity
}

func (m *memoryBillingRepo) CreateEntity(_ context.Context, entity ledger.Entity) error {
	m.entities[entity.ID] = &entity
	return nil
}

func (m *memoryBillingRepo) GetEntity(_ context.Context, id uuid.UUID) (*ledger.Entity, error) {
	entity, ok := m.entities[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	clone := *entity
	return &clone, nil
}

func (m *memoryBillingRepo) ListEntities(_ context.Context) ([]ledger.Entity, error) {
	out := make([]ledger.Entity, 0, len(m.entities))
	for _, entity := range m.entities {
		out = append(out, *entity)
	}
	return out, nil
}

func (m *memoryBillingRepo) UpdateEntityInfo(_ context.Context, id uuid.UUID, description, notes string) error {
	entity, ok := m.entities[id]
	if !ok {
		return httpx.ErrNotFound
	}
	entity.Description = description
	entity.Notes = notes
	return nil
}

func (m *memoryBillingRepo) SoftDeleteEntity(_ context.Context, id uuid.UUID) error {
	entity, ok := m.entities[id]
	if !ok || entity.Deleted() {
		return httpx.ErrNotFound
	}
	now := time.Now()
	entity.DeletedAt = &now
	return nil
}

func (m *memoryBillingRepo) InsertEntry(_ context.Context, entry ledger.Entry) error {
	entity, ok := m.entities[entry.EntityID]
	if !ok {
		return httpx.ErrNotFound
	}
	entity.Entries = append(entity.Entries, entry)
	return nil
}

func (m *memoryBillingRepo) DeleteEntry(_ context.Context, entityID, entryID uuid.UUID) error {
	entity, ok := m.entities[entityID]
	if !ok {
		return httpx.ErrNotFound
	}
	for i, entry := range entity.Entries {
		if entry.ID == entryID {
			entity.Entries = append(entity.Entries[:i], entity.Entries[i+1:]...)
			return nil
		}
	}
	return httpx.ErrNotFound
}

func (m *memoryBillingRepo) Mutate(ctx context.Context, entityID uuid.UUID, fn func(ctx context.Context, repo billing.Repository) error) error {
	if _, ok := m.entities[entityID]; !ok {
		return httpx.ErrNotFound
	}
	return fn(ctx, m)
}

type stubVillas struct {
	villa catalog.Villa
}

func (s *stubVillas) GetVilla(_ context.Context, id uuid.UUID) (*catalog.Villa, error) {
	if id != s.villa.ID {
		return nil, httpx.ErrNotFound
	}
	clone := s.villa
	return &clone, nil
}

type stubNumbers struct{ n int }

func (s *stubNumbers) Next(_ context.Context, series string) (string, error) {
	s.n++
	return fmt.Sprintf("%s-%06d", series, s.n), nil
}

func newTestService() (*Service, *memoryBillingRepo, catalog.Villa) {
	villa := catalog.Villa{
		ID:      uuid.New(),
		Name:    "Villa Sol",
		OwnerID: uuid.New(),
	}
	billingRepo := &memoryBillingRepo{entities: make(map[uuid.UUID]*ledger.Entity)}
	billingSvc := billing.NewService(billingRepo, &stubNumbers{})
	svc := NewService(newMemoryRepo(), billingSvc, &stubVillas{villa: villa})
	return svc, billingRepo, villa
}

func validInput(villaID uuid.UUID) CreateInput {
	return CreateInput{
		VillaID:     villaID,
		GuestName:   "Ana Reyes",
		Guests:      4,
		CheckIn:     time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.RequireFromString("45000"),
		Currency:    ledger.CurrencyDOP,
	}
}

func TestCreateBuildsBillableEntity(t *testing.T) {
	svc, billingRepo, villa := newTestService()

	view, err := svc.Create(context.Background(), validInput(villa.ID))
	require.NoError(t, err)
	require.Equal(t, villa.OwnerID, view.Billing.Entity.OwnerID)
	require.Equal(t, ledger.KindReservation, view.Billing.Entity.Kind)
	require.Equal(t, view.Reservation.CheckIn, view.Billing.Entity.ReferenceDate)
	require.Equal(t, ledger.StatusPending, view.Billing.Derived.Status)
	require.Contains(t, billingRepo.entities, view.Reservation.EntityID)
}

func TestCreateRejectsInvertedStay(t *testing.T) {
	svc, _, villa := newTestService()

	in := validInput(villa.ID)
	in.CheckOut = in.CheckIn
	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, ErrInvalidStay)
}

func TestCreateUnknownVilla(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), validInput(uuid.New()))
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestUpdateLeavesLedgerFieldsAlone(t *testing.T) {
	svc, _, villa := newTestService()
	ctx := context.Background()

	view, err := svc.Create(ctx, validInput(villa.ID))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, view.Reservation.ID, UpdateInput{
		GuestName: "Ana R. Peña",
		Guests:    6,
	})
	require.NoError(t, err)
	require.Equal(t, "Ana R. Peña", updated.Reservation.GuestName)
	require.True(t, updated.Billing.Entity.OriginalAmount.Equal(decimal.RequireFromString("45000")))
}

func TestCancelSoftDeletesEntity(t *testing.T) {
	svc, billingRepo, villa := newTestService()
	ctx := context.Background()

	view, err := svc.Create(ctx, validInput(villa.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, view.Reservation.ID))
	require.True(t, billingRepo.entities[view.Reservation.EntityID].Deleted())

	require.ErrorIs(t, svc.Cancel(ctx, view.Reservation.ID), httpx.ErrNotFound)
}
