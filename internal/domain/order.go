package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a buyer record. Points only accumulate.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks the fields a caller supplies on create.
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("Customer", "name", "is required")
	}
	if c.Phone != nil && strings.TrimSpace(*c.Phone) == "" {
		return invalid("Customer", "phone", "must be absent or non-empty")
	}
	if c.Email != nil && !strings.Contains(*c.Email, "@") {
		return invalid("Customer", "email", "%q is not an email address", *c.Email)
	}
	if c.Points < 0 {
		return invalid("Customer", "points", "must not be negative, got %d", c.Points)
	}
	return nil
}

// Order is a sale. Financial fields are derived from Items by ComputeTotals
// and never accepted from callers.
type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	CustomerID    *string         `json:"customerId,omitempty"`
	Items         []OrderItem     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	PaymentMethod *string         `json:"paymentMethod,omitempty"`
	Note          *string         `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// OrderItem is one line of an Order. Name and Price are a snapshot of the
// product at checkout.
type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// LineTotal computes price × quantity − discount for the item and stores it
// in Total.
func (it *OrderItem) LineTotal() (decimal.Decimal, error) {
	if it.Quantity <= 0 {
		return decimal.Zero, invalid("OrderItem", "quantity", "must be positive, got %d", it.Quantity)
	}
	if err := checkMoney("OrderItem", "price", it.Price); err != nil {
		return decimal.Zero, err
	}
	if err := checkMoney("OrderItem", "discount", it.Discount); err != nil {
		return decimal.Zero, err
	}
	gross := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
	if it.Discount.GreaterThan(gross) {
		return decimal.Zero, invalid("OrderItem", "discount", "%s exceeds line amount %s",
			it.Discount.StringFixed(MoneyScale), gross.StringFixed(MoneyScale))
	}
	it.Total = Money(gross.Sub(it.Discount))
	return it.Total, nil
}

// ComputeTotals fills every item total, Subtotal and Total from the items,
// the order-level Discount and Tax.
func (o *Order) ComputeTotals() error {
	if len(o.Items) == 0 {
		return invalid("Order", "items", "an order needs at least one item")
	}
	subtotal := decimal.Zero
	for i := range o.Items {
		lt, err := o.Items[i].LineTotal()
		if err != nil {
			return err
		}
		subtotal = subtotal.Add(lt)
	}
	if err := checkMoney("Order", "discount", o.Discount); err != nil {
		return err
	}
	if err := checkMoney("Order", "tax", o.Tax); err != nil {
		return err
	}
	if o.Discount.GreaterThan(subtotal) {
		return invalid("Order", "discount", "%s exceeds subtotal %s",
			o.Discount.StringFixed(MoneyScale), subtotal.StringFixed(MoneyScale))
	}
	o.Subtotal = Money(subtotal)
	o.Total = Money(subtotal.Sub(o.Discount).Add(o.Tax))
	return checkMoney("Order", "total", o.Total)
}

// CheckTotals verifies the stored arithmetic without recomputing it.
func (o Order) CheckTotals() error {
	subtotal := decimal.Zero
	for _, it := range o.Items {
		want := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).Sub(it.Discount)
		if !it.Total.Equal(want) {
			return invalid("OrderItem", "total", "%s != %s", it.Total.StringFixed(MoneyScale), want.StringFixed(MoneyScale))
		}
		subtotal = subtotal.Add(it.Total)
	}
	if !o.Subtotal.Equal(subtotal) {
		return invalid("Order", "subtotal", "%s != %s", o.Subtotal.StringFixed(MoneyScale), subtotal.StringFixed(MoneyScale))
	}
	if want := o.Subtotal.Sub(o.Discount).Add(o.Tax); !o.Total.Equal(want) {
		return invalid("Order", "total", "%s != %s", o.Total.StringFixed(MoneyScale), want.StringFixed(MoneyScale))
	}
	return nil
}
