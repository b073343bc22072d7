package energy

// Ledger is the mutable remaining-budget counter for one in-flight request.
// A ledger is owned by exactly one request and is never shared across
// goroutines, so it carries no locking. Remaining is non-increasing and
// never goes negative.
type Ledger struct {
	total     float64
	remaining float64
}

// NewLedger creates a ledger for a request-level budget. Negative budgets
// are treated as zero.
func NewLedger(total float64) *Ledger {
	if total < 0 {
		total = 0
	}
	return &Ledger{total: total, remaining: total}
}

// Total returns the budget the ledger started with
func (l *Ledger) Total() float64 {
	return l.total
}

// Remaining returns the budget still available
func (l *Ledger) Remaining() float64 {
	return l.remaining
}

// Used returns the budget spent so far
func (l *Ledger) Used() float64 {
	return l.total - l.remaining
}

// Exhausted reports whether no budget remains
func (l *Ledger) Exhausted() bool {
	return l.remaining <= 0
}

// Spend debits the full amount or nothing. It returns false when the
// amount exceeds what remains (or is negative), leaving the ledger
// untouched.
func (l *Ledger) Spend(amount float64) bool {
	if amount < 0 || amount > l.remaining {
		return false
	}
	l.remaining -= amount
	return true
}

// SpendUpTo debits as much of the amount as the ledger can cover and
// returns what was actually debited
func (l *Ledger) SpendUpTo(amount float64) float64 {
	if amount < 0 {
		return 0
	}
	if amount > l.remaining {
		amount = l.remaining
	}
	l.remaining -= amount
	return amount
}
