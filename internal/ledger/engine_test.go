package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newEntity(amount string) *Entity {
	return &Entity{
		ID:             uuid.New(),
		Kind:           KindReservation,
		OwnerID:        uuid.New(),
		OriginalAmount: decimal.RequireFromString(amount),
		Currency:       CurrencyDOP,
		ReferenceDate:  time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		CreatedAt:      time.Now(),
	}
}

func register(t *testing.T, e *Entity, amount string, method PaymentMethod, date time.Time) (Entry, Derived) {
	t.Helper()
	entry, derived, _, err := Register(e, RegisterInput{
		Amount:      decimal.RequireFromString(amount),
		Currency:    e.Currency,
		Method:      method,
		PaymentDate: date,
	}, uuid.New(), time.Now())
	require.NoError(t, err)
	return entry, derived
}

func TestComputeDerivedBalanceInvariant(t *testing.T) {
	e := newEntity("2000")
	date := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	register(t, e, "800", MethodCash, date)
	register(t, e, "350.25", MethodTransfer, date)
	register(t, e, "-150.25", MethodTransfer, date)

	derived := ComputeDerived(e)
	sum := decimal.Zero
	for _, entry := range e.Entries {
		sum = sum.Add(entry.Amount)
	}
	require.True(t, derived.TotalPaid.Equal(sum))
	require.True(t, derived.BalanceDue.Equal(e.OriginalAmount.Sub(sum)))
}

func TestComputeDerivedIsIdempotent(t *testing.T) {
	e := newEntity("500")
	register(t, e, "123.45", MethodCash, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	first := ComputeDerived(e)
	second := ComputeDerived(e)
	require.True(t, first.TotalPaid.Equal(second.TotalPaid))
	require.True(t, first.BalanceDue.Equal(second.BalanceDue))
	require.Equal(t, first.Status, second.Status)
}

func TestRegisterThenRemoveRestoresBalanceExactly(t *testing.T) {
	e := newEntity("1000")
	register(t, e, "333.33", MethodCash, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	before := ComputeDerived(e)

	entry, _ := register(t, e, "0.01", MethodDeposit, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	after, err := Remove(e, entry.ID)
	require.NoError(t, err)
	require.True(t, after.BalanceDue.Equal(before.BalanceDue))
	require.True(t, after.TotalPaid.Equal(before.TotalPaid))
}

func TestWouldOverpay(t *testing.T) {
	e := newEntity("1000")

	advisory := WouldOverpay(e, decimal.RequireFromString("1500"))
	require.True(t, advisory.Overpaid)
	require.True(t, advisory.Amount.Equal(decimal.RequireFromString("500")))

	advisory = WouldOverpay(e, decimal.RequireFromString("1000"))
	require.False(t, advisory.Overpaid)
	require.True(t, advisory.Amount.IsZero())
}

func TestStatusTransitions(t *testing.T) {
	e := newEntity("500")
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	_, derived := register(t, e, "500", MethodCash, date)
	require.Equal(t, StatusPaid, derived.Status)
	require.True(t, derived.BalanceDue.IsZero())

	_, derived = register(t, e, "100", MethodCash, date)
	require.Equal(t, StatusOverpaid, derived.Status)
	require.True(t, derived.BalanceDue.Equal(decimal.RequireFromString("-100")))

	_, derived = register(t, e, "-100", MethodTransfer, date)
	require.Equal(t, StatusPaid, derived.Status)
	require.True(t, derived.BalanceDue.IsZero())
}

func TestRegisterOverpaymentSucceedsWithAdvisory(t *testing.T) {
	e := newEntity("100")
	_, derived, advisory, err := Register(e, RegisterInput{
		Amount:      decimal.RequireFromString("150"),
		Currency:    CurrencyDOP,
		Method:      MethodCash,
		PaymentDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}, uuid.New(), time.Now())
	require.NoError(t, err)
	require.True(t, advisory.Overpaid)
	require.True(t, advisory.Amount.Equal(decimal.RequireFromString("50")))
	require.Equal(t, StatusOverpaid, derived.Status)
}

func TestRegisterValidation(t *testing.T) {
	e := newEntity("100")
	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	_, _, _, err := Register(e, RegisterInput{Amount: decimal.Zero, Currency: CurrencyDOP, Method: MethodCash, PaymentDate: date}, uuid.New(), time.Now())
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, _, _, err = Register(e, RegisterInput{Amount: decimal.NewFromInt(10), Currency: "EUR", Method: MethodCash, PaymentDate: date}, uuid.New(), time.Now())
	require.ErrorIs(t, err, ErrInvalidCurrency)

	_, _, _, err = Register(e, RegisterInput{Amount: decimal.NewFromInt(10), Currency: CurrencyUSD, Method: "cheque", PaymentDate: date}, uuid.New(), time.Now())
	require.ErrorIs(t, err, ErrInvalidMethod)

	_, _, _, err = Register(e, RegisterInput{Amount: decimal.NewFromInt(10), Currency: CurrencyUSD, Method: MethodCash}, uuid.New(), time.Now())
	require.ErrorIs(t, err, ErrInvalidDate)

	require.Empty(t, e.Entries)
}

func TestRemoveUnknownEntry(t *testing.T) {
	e := newEntity("100")
	_, err := Remove(e, uuid.New())
	require.ErrorIs(t, err, ErrEntryNotFound)
}

func TestScenarioPartialPayments(t *testing.T) {
	e := newEntity("2000")

	first, derived := register(t, e, "800", MethodCash, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	require.True(t, derived.TotalPaid.Equal(decimal.RequireFromString("800")))
	require.True(t, derived.BalanceDue.Equal(decimal.RequireFromString("1200")))
	require.Equal(t, StatusPending, derived.Status)

	_, derived = register(t, e, "1200", MethodTransfer, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC))
	require.True(t, derived.TotalPaid.Equal(decimal.RequireFromString("2000")))
	require.True(t, derived.BalanceDue.IsZero())
	require.Equal(t, StatusPaid, derived.Status)

	derived, err := Remove(e, first.ID)
	require.NoError(t, err)
	require.True(t, derived.TotalPaid.Equal(decimal.RequireFromString("1200")))
	require.True(t, derived.BalanceDue.Equal(decimal.RequireFromString("800")))
	require.Equal(t, StatusPending, derived.Status)
}

func TestMixedCurrencyEntriesAreSummedAsIs(t *testing.T) {
	// Observed behavior of the business: entries in a different currency
	// than the entity are summed into the same total, no conversion.
	e := newEntity("1000")
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, _, _, err := Register(e, RegisterInput{Amount: decimal.NewFromInt(600), Currency: CurrencyDOP, Method: MethodCash, PaymentDate: date}, uuid.New(), time.Now())
	require.NoError(t, err)
	_, derived, _, err := Register(e, RegisterInput{Amount: decimal.NewFromInt(400), Currency: CurrencyUSD, Method: MethodTransfer, PaymentDate: date}, uuid.New(), time.Now())
	require.NoError(t, err)
	require.Equal(t, StatusPaid, derived.Status)
}
