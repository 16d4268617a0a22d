package models

// Payment marks an order as (partly) paid. PaidAmount is left out of the
// request when nil so the backend keeps its own computation.
type Payment struct {
	AllPaid    bool     `json:"allPaid"`
	PaidAmount *float64 `json:"paidAmount,omitempty"`
}

// OrderValidation is what an admin confirms when validating an optic order.
type OrderValidation struct {
	PaidAmount float64 `json:"paidAmount"`
	TotalPrice float64 `json:"totalPrice"`
}
