package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLedger_PositiveBudget(t *testing.T) {
	ledger := NewLedger(500)

	assert.Equal(t, 500.0, ledger.Total())
	assert.Equal(t, 500.0, ledger.Remaining())
	assert.Equal(t, 0.0, ledger.Used())
	assert.False(t, ledger.Exhausted())
}

func TestNewLedger_NegativeBudgetClampsToZero(t *testing.T) {
	ledger := NewLedger(-50)

	assert.Equal(t, 0.0, ledger.Total())
	assert.Equal(t, 0.0, ledger.Remaining())
	assert.True(t, ledger.Exhausted())
}

func TestLedger_Spend_AllOrNothing(t *testing.T) {
	ledger := NewLedger(100)

	// Affordable debit succeeds in full
	assert.True(t, ledger.Spend(60))
	assert.Equal(t, 40.0, ledger.Remaining())
	assert.Equal(t, 60.0, ledger.Used())

	// Unaffordable debit leaves the ledger untouched
	assert.False(t, ledger.Spend(50))
	assert.Equal(t, 40.0, ledger.Remaining())

	// Spending exactly what remains is allowed
	assert.True(t, ledger.Spend(40))
	assert.Equal(t, 0.0, ledger.Remaining())
	assert.True(t, ledger.Exhausted())
}

func TestLedger_Spend_RejectsNegativeAmount(t *testing.T) {
	ledger := NewLedger(100)

	assert.False(t, ledger.Spend(-1))
	assert.Equal(t, 100.0, ledger.Remaining())
}

func TestLedger_Spend_ZeroAmountIsFree(t *testing.T) {
	ledger := NewLedger(100)

	assert.True(t, ledger.Spend(0))
	assert.Equal(t, 100.0, ledger.Remaining())
}

func TestLedger_SpendUpTo_TruncatesToRemaining(t *testing.T) {
	ledger := NewLedger(30)

	debited := ledger.SpendUpTo(100)

	assert.Equal(t, 30.0, debited)
	assert.Equal(t, 0.0, ledger.Remaining())
	assert.True(t, ledger.Exhausted())
}

func TestLedger_SpendUpTo_FullAmountWhenAffordable(t *testing.T) {
	ledger := NewLedger(100)

	debited := ledger.SpendUpTo(25)

	assert.Equal(t, 25.0, debited)
	assert.Equal(t, 75.0, ledger.Remaining())
}

func TestLedger_SpendUpTo_NegativeAmountDebitsNothing(t *testing.T) {
	ledger := NewLedger(100)

	debited := ledger.SpendUpTo(-10)

	assert.Equal(t, 0.0, debited)
	assert.Equal(t, 100.0, ledger.Remaining())
}

func TestLedger_RemainingNeverGoesNegative(t *testing.T) {
	ledger := NewLedger(10)

	ledger.SpendUpTo(7)
	ledger.SpendUpTo(7)
	ledger.SpendUpTo(7)

	assert.GreaterOrEqual(t, ledger.Remaining(), 0.0)
	assert.Equal(t, 10.0, ledger.Used())
}
