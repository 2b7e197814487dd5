package dto

// ProductResponse is a catalog item together with the restaurants that
// currently offer it.
type ProductResponse struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Price       float64             `json:"price"`
	Description string              `json:"description,omitempty"`
	Special     bool                `json:"special"`
	Restaurants []ProductRestaurant `json:"restaurants"`
}

// ProductRestaurant is the short restaurant reference embedded in the
// product listing.
type ProductRestaurant struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
