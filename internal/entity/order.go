package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Status tracks an order through its lifecycle. Transitions are forward-only
// and single-step; see Status.CanAdvance.
type Status string

const (
	StatusUnprocessed Status = "UNPROCESSED"
	StatusNew         Status = "NEW"
	StatusCooking     Status = "COOKING"
	StatusDelivering  Status = "DELIVERING"
	StatusCompleted   Status = "COMPLETED"
)

// statusRank orders the lifecycle for transition checks.
var statusRank = map[Status]int{
	StatusUnprocessed: 0,
	StatusNew:         1,
	StatusCooking:     2,
	StatusDelivering:  3,
	StatusCompleted:   4,
}

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvance reports whether next is the immediate successor of s.
func (s Status) CanAdvance(next Status) bool {
	cur, ok := statusRank[s]
	if !ok {
		return false
	}
	nxt, ok := statusRank[next]
	if !ok {
		return false
	}
	return nxt == cur+1
}

// PaymentMethod enumerates how a customer pays for an order.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentOnline PaymentMethod = "ONLINE"
)

// Order is a customer order placed through the public API and managed by
// operations staff afterwards.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID            int64         `bun:",pk,autoincrement"`
	Firstname     string        `bun:"firstname"`
	Lastname      string        `bun:"lastname"`
	Phonenumber   string        `bun:"phonenumber"`
	Address       string        `bun:"address"`
	Status        Status        `bun:"status"`
	Comment       string        `bun:"comment"`
	PaymentMethod PaymentMethod `bun:"payment_method"`
	RestaurantID  *int64        `bun:"restaurant_id"`
	CreatedAt     time.Time     `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	CalledAt      *time.Time    `bun:"called_at"`
	DeliveredAt   *time.Time    `bun:"delivered_at"`

	Restaurant *Restaurant `bun:"rel:belongs-to,join:restaurant_id=id"`
	Lines      []OrderLine `bun:"rel:has-many,join:id=order_id"`
}

// TotalPrice is the sum of line price snapshots times quantities.
func (o *Order) TotalPrice() float64 {
	var total float64
	for _, line := range o.Lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// ProductIDs returns the distinct product ids referenced by the order lines.
func (o *Order) ProductIDs() []int64 {
	seen := make(map[int64]struct{}, len(o.Lines))
	ids := make([]int64, 0, len(o.Lines))
	for _, line := range o.Lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

// OrderLine is a single position of an order. Price is snapshotted from the
// product at creation time and never recomputed afterwards.
type OrderLine struct {
	bun.BaseModel `bun:"table:order_lines,alias:ol"`

	ID        int64   `bun:",pk,autoincrement"`
	OrderID   int64   `bun:"order_id"`
	ProductID int64   `bun:"product_id"`
	Quantity  int     `bun:"quantity"`
	Price     float64 `bun:"price"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id"`
}
