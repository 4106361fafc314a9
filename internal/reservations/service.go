package reservations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/villasol-erp/villasol-erp/internal/billing"
	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/shared"
)

// Service coordinates reservations with the catalog and the billing
// ledger.
type Service struct {
	repo    Repository
	billing *billing.Service
	villas  VillaSource
}

// NewService builds a Service instance.
func NewService(repo Repository, billingSvc *billing.Service, villas VillaSource) *Service {
	return &Service{repo: repo, billing: billingSvc, villas: villas}
}

// Create books a stay. The billable entity takes the villa owner as its
// owner and the check-in date as its business reference date, so the
// reservation lands in the owner's half-month settlement of the check-in.
func (s *Service) Create(ctx context.Context, in CreateInput) (*View, error) {
	if !in.CheckOut.After(in.CheckIn) {
		return nil, ErrInvalidStay
	}

	villa, err := s.villas.GetVilla(ctx, in.VillaID)
	if err != nil {
		return nil, fmt.Errorf("reservations: verify villa: %w", err)
	}

	state, err := s.billing.CreateEntity(ctx, billing.CreateEntityInput{
		Kind:           ledger.KindReservation,
		Description:    fmt.Sprintf("%s, %s", in.GuestName, villa.Name),
		OwnerID:        villa.OwnerID,
		OriginalAmount: in.TotalAmount,
		Currency:       in.Currency,
		ReferenceDate:  in.CheckIn,
		Notes:          in.Notes,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	res := Reservation{
		ID:         uuid.New(),
		EntityID:   state.Entity.ID,
		VillaID:    in.VillaID,
		GuestName:  in.GuestName,
		GuestPhone: in.GuestPhone,
		Guests:     in.Guests,
		CheckIn:    in.CheckIn,
		CheckOut:   in.CheckOut,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("reservations: create: %w", err)
	}
	return &View{Reservation: res, Billing: state}, nil
}

// Get loads a reservation with its payment state.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := s.billing.Get(ctx, res.EntityID)
	if err != nil {
		return nil, err
	}
	return &View{Reservation: *res, Billing: state}, nil
}

// List returns a page of reservations without their ledgers.
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

// Update patches guest-facing fields only.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*View, error) {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res.GuestName = in.GuestName
	res.GuestPhone = in.GuestPhone
	res.Guests = in.Guests
	res.Notes = in.Notes
	if err := s.repo.Update(ctx, *res); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Cancel soft-deletes the underlying billable entity. The reservation row
// stays; it simply vanishes from billing views with its entity.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.billing.SoftDelete(ctx, res.EntityID)
}
