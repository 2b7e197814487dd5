package seeder

import (
	"context"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/database"
	"github.com/Additional-Code/foodcart/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Catalog seeds example products, restaurants, and menu rows if missing.
func (s *Seeder) Catalog(ctx context.Context) error {
	products := []entity.Product{
		{Name: "Margherita", Price: 450, Description: "Tomato, mozzarella, basil"},
		{Name: "Pepperoni", Price: 520, Description: "Pepperoni, mozzarella"},
		{Name: "Cheeseburger", Price: 320, Description: "Beef patty, cheddar"},
		{Name: "Lemonade", Price: 120, Description: "House lemonade", Special: true},
	}
	for i := range products {
		product := products[i]
		_, err := s.db.NewInsert().Model(&product).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	restaurants := []entity.Restaurant{
		{Name: "Central Kitchen", Address: "Москва, ул. Ленина, 1", ContactPhone: "+7 495 000-00-01"},
		{Name: "Riverside Grill", Address: "Москва, ул. Набережная, 12", ContactPhone: "+7 495 000-00-02"},
	}
	for i := range restaurants {
		restaurant := restaurants[i]
		_, err := s.db.NewInsert().Model(&restaurant).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	// Menu rows reference seeded entities by name to stay idempotent.
	_, err := s.db.NewRaw(`
		INSERT INTO menu_items (restaurant_id, product_id, available)
		SELECT r.id, p.id, TRUE FROM restaurants r CROSS JOIN products p
		ON CONFLICT (restaurant_id, product_id) DO NOTHING`).
		Exec(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("seeded catalog",
		zap.Int("products", len(products)),
		zap.Int("restaurants", len(restaurants)),
	)
	return nil
}
