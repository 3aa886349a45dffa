package models

// PlaceOrder is the whole checkout form as submitted.
type PlaceOrder struct {
	Details
	Card CardInput `json:"card"`
}

type OrderResult struct {
	OrderID  string    `json:"orderId,omitempty"`
	Problems []Problem `json:"problems,omitempty"`
	Totals   Totals    `json:"totals"`
}

func (r OrderResult) Placed() bool {
	return r.OrderID != "" && len(r.Problems) == 0
}
