package expenses

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/villasol-erp/villasol-erp/internal/billing"
	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/shared"
)

// Service coordinates expenses with the billing ledger.
type Service struct {
	repo    Repository
	billing *billing.Service
}

// NewService builds a Service instance.
func NewService(repo Repository, billingSvc *billing.Service) *Service {
	return &Service{repo: repo, billing: billingSvc}
}

// Create records an expense. The billable entity takes the incurred-on
// date as its business reference date.
func (s *Service) Create(ctx context.Context, in CreateInput) (*View, error) {
	state, err := s.billing.CreateEntity(ctx, billing.CreateEntityInput{
		Kind:           ledger.KindExpense,
		Description:    in.Description,
		OwnerID:        in.OwnerID,
		OriginalAmount: in.Amount,
		Currency:       in.Currency,
		ReferenceDate:  in.IncurredOn,
		Notes:          in.Notes,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	exp := Expense{
		ID:           uuid.New(),
		EntityID:     state.Entity.ID,
		VillaID:      in.VillaID,
		Category:     in.Category,
		SupplierName: in.SupplierName,
		IncurredOn:   in.IncurredOn,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, exp); err != nil {
		return nil, fmt.Errorf("expenses: create: %w", err)
	}
	return &View{Expense: exp, Billing: state}, nil
}

// Get loads an expense with its payment state.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	exp, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := s.billing.Get(ctx, exp.EntityID)
	if err != nil {
		return nil, err
	}
	return &View{Expense: *exp, Billing: state}, nil
}

// List returns a page of expenses without their ledgers.
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

// Update patches descriptive fields only.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*View, error) {
	exp, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	exp.Category = in.Category
	exp.SupplierName = in.SupplierName
	if err := s.repo.Update(ctx, *exp); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Remove soft-deletes the underlying billable entity.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	exp, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.billing.SoftDelete(ctx, exp.EntityID)
}
