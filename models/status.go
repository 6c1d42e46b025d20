package models

// OrderStatus only moves forward: NEW -> COOKING -> DELIVERY -> CLOSED.
type OrderStatus string

const (
	StatusNew      OrderStatus = "NEW"
	StatusCooking  OrderStatus = "COOKING"
	StatusDelivery OrderStatus = "DELIVERY"
	StatusClosed   OrderStatus = "CLOSED"
)

var statusRank = map[OrderStatus]int{
	StatusNew:      1,
	StatusCooking:  2,
	StatusDelivery: 3,
	StatusClosed:   4,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether next is the same status or a later one.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return statusRank[next] >= statusRank[s]
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentCard
}

// Rank orders statuses along the lifecycle; unknown statuses sort last.
func (s OrderStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return len(statusRank) + 1
}
