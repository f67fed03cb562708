package model

// OrderStatus is the order lifecycle state. The linear path is
// pending → processing → shipped → delivered; failed and cancelled are
// absorbing exits reachable from pending or processing only. Once a parcel
// is shipped the handoff is physical and this tracker no longer allows
// cancellation.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// LinearStatuses is the forward fulfillment path in order, used by the
// tracking timeline.
var LinearStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusFailed, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusFailed, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusFailed:     {},
	OrderStatusCancelled:  {},
}

// Valid reports whether s is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether s can never be left.
func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// CanTransition reports whether moving from s to target is a legal step:
// the immediate linear successor, or an absorbing exit from pending or
// processing.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// LinearIndex returns s's position on the forward path, or -1 for the
// absorbing failure states.
func (s OrderStatus) LinearIndex() int {
	for i, st := range LinearStatuses {
		if st == s {
			return i
		}
	}
	return -1
}
