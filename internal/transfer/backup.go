package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/villasol-erp/villasol-erp/internal/ledger"
)

// EntitySource supplies full entities, entries included, for snapshots.
type EntitySource interface {
	ListEntities(ctx context.Context) ([]ledger.Entity, error)
}

// Snapshot is a complete dump of the ledger, soft-deleted entities
// included. Restores need the deleted rows too.
type Snapshot struct {
	TakenAt  time.Time       `json:"takenAt"`
	Entities []ledger.Entity `json:"entities"`
}

// WriteSnapshot dumps every entity with its entries as JSON.
func WriteSnapshot(ctx context.Context, w io.Writer, source EntitySource) (*Snapshot, error) {
	entities, err := source.ListEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("transfer: list entities: %w", err)
	}

	snapshot := &Snapshot{TakenAt: time.Now(), Entities: entities}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return nil, fmt.Errorf("transfer: encode snapshot: %w", err)
	}
	return snapshot, nil
}

// ReadSnapshot parses and validates a snapshot before a restore touches
// the database. Validation mirrors the registration rules so a restore
// can never introduce entities the API would have rejected.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var snapshot Snapshot
	if err := dec.Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("transfer: decode snapshot: %w", err)
	}

	for i := range snapshot.Entities {
		entity := &snapshot.Entities[i]
		if entity.OriginalAmount.Sign() <= 0 {
			return nil, fmt.Errorf("transfer: entity %s: %w", entity.ID, ledger.ErrInvalidAmount)
		}
		if !entity.Currency.Valid() {
			return nil, fmt.Errorf("transfer: entity %s: %w", entity.ID, ledger.ErrInvalidCurrency)
		}
		for _, entry := range entity.Entries {
			if entry.EntityID != entity.ID {
				return nil, fmt.Errorf("transfer: entry %s does not belong to entity %s", entry.ID, entity.ID)
			}
			if entry.Amount.IsZero() {
				return nil, fmt.Errorf("transfer: entry %s: %w", entry.ID, ledger.ErrInvalidAmount)
			}
			if !entry.Currency.Valid() {
				return nil, fmt.Errorf("transfer: entry %s: %w", entry.ID, ledger.ErrInvalidCurrency)
			}
		}
	}
	return &snapshot, nil
}
