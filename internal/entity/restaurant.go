package entity

import "github.com/uptrace/bun"

// Restaurant is a venue that can prepare orders. The address doubles as the
// geocoding key; editing it simply makes the next match look up fresh
// coordinates for the new string.
type Restaurant struct {
	bun.BaseModel `bun:"table:restaurants,alias:r"`

	ID           int64  `bun:",pk,autoincrement"`
	Name         string `bun:"name"`
	Address      string `bun:"address"`
	ContactPhone string `bun:"contact_phone"`

	MenuItems []MenuItem `bun:"rel:has-many,join:id=restaurant_id"`
}

// MenuItem relates a restaurant to a product it may offer. At most one row
// exists per (restaurant, product) pair; only rows with Available=true count
// towards feasibility.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	ID           int64 `bun:",pk,autoincrement"`
	RestaurantID int64 `bun:"restaurant_id"`
	ProductID    int64 `bun:"product_id"`
	Available    bool  `bun:"available"`

	Restaurant *Restaurant `bun:"rel:belongs-to,join:restaurant_id=id"`
	Product    *Product    `bun:"rel:belongs-to,join:product_id=id"`
}
