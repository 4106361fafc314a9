package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates a zero or otherwise unusable amount.
	ErrInvalidAmount = errors.New("ledger: amount must be a non-zero decimal")
	// ErrInvalidCurrency indicates a currency code outside the enumerated set.
	ErrInvalidCurrency = errors.New("ledger: unrecognised currency code")
	// ErrInvalidMethod indicates an unknown payment method.
	ErrInvalidMethod = errors.New("ledger: unrecognised payment method")
	// ErrInvalidDate indicates a missing payment date.
	ErrInvalidDate = errors.New("ledger: payment date required")
	// ErrEntryNotFound indicates the entry does not belong to the entity.
	ErrEntryNotFound = errors.New("ledger: entry not found on entity")
)

// Advisory reports a predicted or actual overpayment. It is not an error:
// overpaying is a valid terminal state, the caller just has to confirm it
// before committing.
type Advisory struct {
	Overpaid bool            `json:"overpaid"`
	Amount   decimal.Decimal `json:"amount"`
}

// ComputeDerived recomputes the payment state from the original amount and
// the signed sum of all entries. Entries are summed regardless of their own
// currency field; the business registers mixed-currency abonos and expects
// a single running total.
func ComputeDerived(e *Entity) Derived {
	total := decimal.Zero
	for _, entry := range e.Entries {
		total = total.Add(entry.Amount)
	}
	balance := e.OriginalAmount.Sub(total)

	status := StatusPending
	switch balance.Sign() {
	case 0:
		status = StatusPaid
	case -1:
		status = StatusOverpaid
	}
	return Derived{TotalPaid: total, BalanceDue: balance, Status: status}
}

// WouldOverpay predicts whether registering candidate would push the
// balance negative, and by how much. Pure; safe to call concurrently.
func WouldOverpay(e *Entity, candidate decimal.Decimal) Advisory {
	over := ComputeDerived(e).TotalPaid.Add(candidate).Sub(e.OriginalAmount)
	if over.Sign() > 0 {
		return Advisory{Overpaid: true, Amount: over}
	}
	return Advisory{Overpaid: false, Amount: decimal.Zero}
}

// RegisterInput carries the caller-supplied fields of a new entry.
type RegisterInput struct {
	Amount          decimal.Decimal
	Currency        Currency
	Method          PaymentMethod
	PaymentDate     time.Time
	ReferenceNumber string
	Notes           string
}

// Register validates the input and appends a new entry to the entity.
// The entity's original amount is never touched. Overpayment does not fail
// the call; the advisory is returned alongside the recomputed state so the
// caller can require confirmation before committing.
func Register(e *Entity, in RegisterInput, id uuid.UUID, now time.Time) (Entry, Derived, Advisory, error) {
	if in.Amount.IsZero() {
		return Entry{}, Derived{}, Advisory{}, ErrInvalidAmount
	}
	if !in.Currency.Valid() {
		return Entry{}, Derived{}, Advisory{}, ErrInvalidCurrency
	}
	if !in.Method.Valid() {
		return Entry{}, Derived{}, Advisory{}, ErrInvalidMethod
	}
	if in.PaymentDate.IsZero() {
		return Entry{}, Derived{}, Advisory{}, ErrInvalidDate
	}

	advisory := WouldOverpay(e, in.Amount)
	entry := Entry{
		ID:              id,
		EntityID:        e.ID,
		Amount:          in.Amount,
		Currency:        in.Currency,
		Method:          in.Method,
		PaymentDate:     in.PaymentDate,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		CreatedAt:       now,
	}
	e.Entries = append(e.Entries, entry)
	return entry, ComputeDerived(e), advisory, nil
}

// Remove deletes the identified entry and recomputes the state. Removal is
// a corrective action ("the abono was registered in error") and is allowed
// in any payment state.
func Remove(e *Entity, entryID uuid.UUID) (Derived, error) {
	for i, entry := range e.Entries {
		if entry.ID == entryID {
			e.Entries = append(e.Entries[:i], e.Entries[i+1:]...)
			return ComputeDerived(e), nil
		}
	}
	return Derived{}, ErrEntryNotFound
}
