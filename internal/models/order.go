package models

// OrderCustomer identifies the customer attached to an order.
type OrderCustomer struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// OrderSummary is the payload the external orders service returns for one order.
type OrderSummary struct {
	ID       string        `json:"id"`
	Amount   float64       `json:"amount"`
	Status   string        `json:"status"`
	Customer OrderCustomer `json:"customer"`
}
