package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Place is a persisted geocoding result keyed by the raw (trimmed) address
// string. Latitude/Longitude are nil when the geocoder genuinely found
// nothing; such rows are re-attempted on the next lookup.
type Place struct {
	bun.BaseModel `bun:"table:places,alias:pl"`

	ID          int64     `bun:",pk,autoincrement"`
	Address     string    `bun:"address,unique"`
	Latitude    *float64  `bun:"latitude"`
	Longitude   *float64  `bun:"longitude"`
	LastUpdated time.Time `bun:"last_updated,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}

// Resolved reports whether the place carries usable coordinates.
func (p *Place) Resolved() bool {
	return p != nil && p.Latitude != nil && p.Longitude != nil
}
