package models

// LineItem is one row of the cart. Rows are kept in insertion order and the
// same product added twice produces two rows.
type LineItem struct {
	ID    string  `json:"id"`
	Image string  `json:"image"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

type AddItem struct {
	Name  string  `json:"name" validate:"required"`
	Image string  `json:"image"`
	Price float64 `json:"price" validate:"gte=0"`
	Qty   int     `json:"qty"`
}

type UpdateQuantity struct {
	Qty int `json:"qty"`
}
