package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/shopspring/decimal"
)

// Draft accumulates line items before an order is committed. Adding the
// same service twice merges into one line: quantities sum and the subtotal
// is recomputed from the price captured on the first add. A Draft is not
// safe for concurrent use.
type Draft struct {
	items []domain.LineItem
	index map[uuid.UUID]int
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{index: make(map[uuid.UUID]int)}
}

// AddItem appends qty units of svc to the draft, merging with an existing
// line for the same service. The unit price is snapshotted from svc at
// first add; a second add of the same service keeps the original price.
func (d *Draft) AddItem(svc domain.Service, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return fmt.Errorf("%s: %w", svc.Name, ErrInvalidQuantity)
	}
	// Sub-cent quantities would be rounded away by the NUMERIC(10,2)
	// column, so reject them before they reach the store.
	if !qty.Equal(qty.Truncate(2)) {
		return fmt.Errorf("%s: %w", svc.Name, ErrQuantityPrecision)
	}

	if i, ok := d.index[svc.ID]; ok {
		line := &d.items[i]
		line.Quantity = line.Quantity.Add(qty)
		line.Subtotal = line.UnitPrice.Mul(line.Quantity)
		return nil
	}

	d.index[svc.ID] = len(d.items)
	d.items = append(d.items, domain.LineItem{
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Quantity:    qty,
		UnitPrice:   svc.Price,
		Subtotal:    svc.Price.Mul(qty),
	})
	return nil
}

// Items returns the composed lines in first-add order.
func (d *Draft) Items() []domain.LineItem {
	return d.items
}

// Empty reports whether no items have been added.
func (d *Draft) Empty() bool {
	return len(d.items) == 0
}

// Total sums the line subtotals.
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range d.items {
		total = total.Add(it.Subtotal)
	}
	return total
}
