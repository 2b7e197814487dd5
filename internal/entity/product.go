package entity

import "github.com/uptrace/bun"

// Product is a catalog item. Once referenced by an order line its price is
// captured on the line, so later price edits do not affect existing orders.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64   `bun:",pk,autoincrement"`
	Name        string  `bun:"name"`
	Price       float64 `bun:"price"`
	Description string  `bun:"description"`
	Special     bool    `bun:"special"`

	MenuItems []MenuItem `bun:"rel:has-many,join:id=product_id"`
}
