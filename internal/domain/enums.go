package domain

// Role is a staff account's permission level.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

// Roles lists every declared Role in schema order.
var Roles = []Role{RoleAdmin, RoleManager, RoleStaff}

// ParseRole validates s against the closed Role set. Values are never
// coerced: "admin" is rejected.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", invalid("User", "role", "%q is not one of ADMIN, MANAGER, STAFF", s)
}

// OrderStatus is the fulfilment state of an Order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every declared OrderStatus in schema order.
var OrderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderCompleted, OrderCancelled}

// ParseOrderStatus validates s against the closed OrderStatus set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", invalid("Order", "status", "%q is not one of PENDING, PROCESSING, COMPLETED, CANCELLED", s)
}

// orderStatusNext holds the forward transitions allowed from each status.
var orderStatusNext = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderCompleted, OrderCancelled},
}

// CanTransition reports whether moving from s to next is a forward move.
// COMPLETED and CANCELLED are terminal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, n := range orderStatusNext[s] {
		if n == next {
			return true
		}
	}
	return false
}

// PaymentStatus is the settlement state of an Order.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPartial  PaymentStatus = "PARTIAL"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// PaymentStatuses lists every declared PaymentStatus in schema order.
var PaymentStatuses = []PaymentStatus{PaymentUnpaid, PaymentPartial, PaymentPaid, PaymentRefunded}

// ParsePaymentStatus validates s against the closed PaymentStatus set.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for _, ps := range PaymentStatuses {
		if string(ps) == s {
			return ps, nil
		}
	}
	return "", invalid("Order", "paymentStatus", "%q is not one of UNPAID, PARTIAL, PAID, REFUNDED", s)
}

var paymentStatusNext = map[PaymentStatus][]PaymentStatus{
	PaymentUnpaid:  {PaymentPartial, PaymentPaid},
	PaymentPartial: {PaymentPaid, PaymentRefunded},
	PaymentPaid:    {PaymentRefunded},
}

// CanTransition reports whether moving from s to next is a forward move.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	for _, n := range paymentStatusNext[s] {
		if n == next {
			return true
		}
	}
	return false
}

// MovementType classifies a StockMovement.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementReturn     MovementType = "RETURN"
	MovementReserve    MovementType = "RESERVE"
	MovementRelease    MovementType = "RELEASE"
)

// MovementTypes lists every declared MovementType.
var MovementTypes = []MovementType{
	MovementIn, MovementOut, MovementAdjustment, MovementReturn, MovementReserve, MovementRelease,
}

// ParseMovementType validates s against the closed MovementType set.
func ParseMovementType(s string) (MovementType, error) {
	for _, mt := range MovementTypes {
		if string(mt) == s {
			return mt, nil
		}
	}
	return "", invalid("StockMovement", "type", "%q is not a known movement type", s)
}

// AffectsReserved reports whether the movement changes the reserved quantity
// rather than the on-hand quantity.
func (t MovementType) AffectsReserved() bool {
	return t == MovementReserve || t == MovementRelease
}
