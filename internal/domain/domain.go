package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a laundry customer. Email is optional.
type Customer struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service is a catalog entry: a priced laundry service (wash, iron, dry
// clean, ...). Price is per unit and must be non-negative.
type Service struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
}

// LineItem is one service selection within an order. UnitPrice is a
// snapshot of the catalog price at the moment the item was added; later
// catalog changes never alter existing orders.
type LineItem struct {
	ServiceID   uuid.UUID
	ServiceName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Order is a committed laundry order. Total is fixed at creation; Paid is
// the cumulative amount received and only ever grows.
type Order struct {
	ID           uuid.UUID
	CustomerID   uuid.UUID
	CustomerName string
	Items        []LineItem
	Total        decimal.Decimal
	Paid         decimal.Decimal
	Status       string
	CreatedAt    time.Time
}

// Remaining returns the unpaid balance, negative once overpaid.
func (o Order) Remaining() decimal.Decimal {
	return o.Total.Sub(o.Paid)
}

// Payment is an immutable record of money received against an order. It is
// never updated; it is deleted only when its parent order is deleted.
type Payment struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Amount    decimal.Decimal
	Method    string
	CreatedAt time.Time
}

// User is an operator account for the counter application.
type User struct {
	ID             uuid.UUID
	Email          string
	FullName       string
	HashedPassword string
	Role           string
	CreatedAt      time.Time
}
