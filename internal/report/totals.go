package report

import "github.com/shopspring/decimal"

// Totals is a sum-per-key map that iterates in insertion order of first
// appearance. Ordering is part of its contract: Reconcile rows and the
// TopCategory tie-break both depend on it.
type Totals[K comparable] struct {
	keys []K
	sums map[K]decimal.Decimal
}

// NewTotals returns an empty Totals. The zero value is also ready to use.
func NewTotals[K comparable]() *Totals[K] {
	return &Totals[K]{sums: make(map[K]decimal.Decimal)}
}

// Add adds amount to key, registering key on first use.
func (t *Totals[K]) Add(key K, amount decimal.Decimal) {
	if t.sums == nil {
		t.sums = make(map[K]decimal.Decimal)
	}
	cur, ok := t.sums[key]
	if !ok {
		t.keys = append(t.keys, key)
	}
	t.sums[key] = cur.Add(amount)
}

// Get returns the sum for key and whether the key is present.
func (t *Totals[K]) Get(key K) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	v, ok := t.sums[key]
	return v, ok
}

func (t *Totals[K]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Sum returns the total over all keys.
func (t *Totals[K]) Sum() decimal.Decimal {
	total := decimal.Zero
	if t == nil {
		return total
	}
	for _, k := range t.keys {
		total = total.Add(t.sums[k])
	}
	return total
}

// Each calls fn for every entry in insertion order.
func (t *Totals[K]) Each(fn func(key K, sum decimal.Decimal)) {
	if t == nil {
		return
	}
	for _, k := range t.keys {
		fn(k, t.sums[k])
	}
}
