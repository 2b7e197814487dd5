package dto

import "time"

// CreateOrderRequest is the public order ingestion payload.
type CreateOrderRequest struct {
	Firstname     string                   `json:"firstname"`
	Lastname      string                   `json:"lastname"`
	Phonenumber   string                   `json:"phonenumber"`
	Address       string                   `json:"address"`
	Comment       string                   `json:"comment"`
	PaymentMethod string                   `json:"payment_method"`
	Products      []CreateOrderLineRequest `json:"products"`
}

// CreateOrderLineRequest is one position of an order submission.
type CreateOrderLineRequest struct {
	Product  int64 `json:"product"`
	Quantity int   `json:"quantity"`
}

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID            int64               `json:"id"`
	Firstname     string              `json:"firstname"`
	Lastname      string              `json:"lastname"`
	Phonenumber   string              `json:"phonenumber"`
	Address       string              `json:"address"`
	Status        string              `json:"status"`
	Comment       string              `json:"comment,omitempty"`
	PaymentMethod string              `json:"payment_method"`
	TotalPrice    float64             `json:"total_price"`
	RestaurantID  *int64              `json:"restaurant_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Lines         []OrderLineResponse `json:"products"`
}

// OrderLineResponse is one position of an order with its price snapshot.
type OrderLineResponse struct {
	Product  int64   `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}
