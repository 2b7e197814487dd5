package dto

// Candidate is one feasible restaurant for an order, with its distance from
// the delivery address when known.
type Candidate struct {
	RestaurantID int64    `json:"restaurant_id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	DistanceKm   *float64 `json:"distance_km"`
}

// MatchResult holds the ranked candidates for a single order. It is returned
// by value; matching never attaches computed data to entities.
type MatchResult struct {
	OrderID    int64       `json:"order_id"`
	Candidates []Candidate `json:"candidates"`
}

// OrderMatches pairs an open order with its ranked candidates for the admin
// order board.
type OrderMatches struct {
	Order      OrderResponse `json:"order"`
	Candidates []Candidate   `json:"candidates"`
}
