package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
	"github.com/villasol-erp/villasol-erp/internal/numbering"
	"github.com/villasol-erp/villasol-erp/internal/platform/httpx"
)

// Service coordinates the ledger engine with persistence.
type Service struct {
	repo    Repository
	numbers NumberSource
}

// NewService builds a Service instance.
func NewService(repo Repository, numbers NumberSource) *Service {
	return &Service{repo: repo, numbers: numbers}
}

// CreateEntity stores a new billable entity. OriginalAmount and Currency
// are immutable after this point.
func (s *Service) CreateEntity(ctx context.Context, in CreateEntityInput) (*EntityState, error) {
	if in.OriginalAmount.Sign() <= 0 {
		return nil, ledger.ErrInvalidAmount
	}
	if !in.Currency.Valid() {
		return nil, ledger.ErrInvalidCurrency
	}
	if in.ReferenceDate.IsZero() {
		return nil, ledger.ErrInvalidDate
	}

	now := time.Now()
	entity := ledger.Entity{
		ID:             uuid.New(),
		Kind:           in.Kind,
		Description:    in.Description,
		OwnerID:        in.OwnerID,
		OriginalAmount: in.OriginalAmount,
		Currency:       in.Currency,
		ReferenceDate:  in.ReferenceDate,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateEntity(ctx, entity); err != nil {
		return nil, fmt.Errorf("billing: create entity: %w", err)
	}
	return &EntityState{Entity: entity, Derived: ledger.ComputeDerived(&entity)}, nil
}

// Get loads an entity with its entries and derived state.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*EntityState, error) {
	entity, err := s.repo.GetEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EntityState{Entity: *entity, Derived: ledger.ComputeDerived(entity)}, nil
}

// ListEntries returns an entity's entries in registration order.
func (s *Service) ListEntries(ctx context.Context, id uuid.UUID) ([]ledger.Entry, error) {
	entity, err := s.repo.GetEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	return entity.Entries, nil
}

// List returns filtered entity summaries.
func (s *Service) List(ctx context.Context, filter ledger.Filter) ([]ledger.Summary, error) {
	entities, err := s.repo.ListEntities(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]ledger.Summary, 0, len(entities))
	for i := range entities {
		summaries = append(summaries, ledger.Summarize(&entities[i]))
	}
	return ledger.Apply(summaries, filter), nil
}

// UpdateInfo patches the non-ledger fields of an entity.
func (s *Service) UpdateInfo(ctx context.Context, id uuid.UUID, description, notes string) error {
	return s.repo.UpdateEntityInfo(ctx, id, description, notes)
}

// SoftDelete marks the entity deleted. Its entries stay owned by it and
// disappear from normal views together with it.
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDeleteEntity(ctx, id)
}

// RegisterEntry appends a new abono under the entity's row lock. An
// unconfirmed overpayment aborts with *OverpaymentError before anything is
// written; a confirmed one commits and reports the advisory.
func (s *Service) RegisterEntry(ctx context.Context, entityID uuid.UUID, in RegisterEntryInput) (*EntryResult, error) {
	var result *EntryResult
	err := s.repo.Mutate(ctx, entityID, func(ctx context.Context, repo Repository) error {
		entity, err := repo.GetEntity(ctx, entityID)
		if err != nil {
			return err
		}

		advisory := ledger.WouldOverpay(entity, in.Amount)
		if advisory.Overpaid && !in.ConfirmOverpayment {
			return &OverpaymentError{Amount: advisory.Amount}
		}

		reference := in.ReferenceNumber
		if reference == "" {
			reference, err = s.numbers.Next(ctx, numbering.SeriesAbono)
			if err != nil {
				return err
			}
		}

		entry, derived, advisory, err := ledger.Register(entity, ledger.RegisterInput{
			Amount:          in.Amount,
			Currency:        in.Currency,
			Method:          in.Method,
			PaymentDate:     in.PaymentDate,
			ReferenceNumber: reference,
			Notes:           in.Notes,
		}, uuid.New(), time.Now())
		if err != nil {
			return err
		}

		if err := repo.InsertEntry(ctx, entry); err != nil {
			return fmt.Errorf("billing: insert entry: %w", err)
		}
		result = &EntryResult{Entry: entry, Derived: derived, Advisory: advisory}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveEntry deletes an abono registered in error and returns the
// recomputed state. Allowed in any payment state; restricted to admins at
// the transport layer.
func (s *Service) RemoveEntry(ctx context.Context, entityID, entryID uuid.UUID) (ledger.Derived, error) {
	var derived ledger.Derived
	err := s.repo.Mutate(ctx, entityID, func(ctx context.Context, repo Repository) error {
		entity, err := repo.GetEntity(ctx, entityID)
		if err != nil {
			return err
		}

		derived, err = ledger.Remove(entity, entryID)
		if err != nil {
			if errors.Is(err, ledger.ErrEntryNotFound) {
				return httpx.ErrNotFound
			}
			return err
		}
		return repo.DeleteEntry(ctx, entityID, entryID)
	})
	if err != nil {
		return ledger.Derived{}, err
	}
	return derived, nil
}
