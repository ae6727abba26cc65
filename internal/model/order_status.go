package model

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusReceived       OrderStatus = "recebido"
	StatusConfirmed      OrderStatus = "confirmado"
	StatusPreparing      OrderStatus = "preparando"
	StatusOutForDelivery OrderStatus = "entrega"
	StatusDelivered      OrderStatus = "entregue"
	StatusCancelled      OrderStatus = "cancelado"
)

// OrderStatuses lists every status in workflow order.
var OrderStatuses = []OrderStatus{
	StatusReceived,
	StatusConfirmed,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// ParseOrderStatus validates s against the closed status set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is expected from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// strictTransitions is the forward-only workflow. Cancelling is allowed from
// any non-terminal state; pickup orders may skip the delivery step.
var strictTransitions = map[OrderStatus][]OrderStatus{
	StatusReceived:       {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery, StatusDelivered, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
}

// TransitionPolicy decides whether an admin may move an order between statuses.
type TransitionPolicy struct {
	Strict bool
}

// Allows reports whether from -> to is permitted. Re-applying the current
// status is always allowed. Without Strict any valid status may follow any other.
func (p TransitionPolicy) Allows(from, to OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if !p.Strict {
		return true
	}
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
