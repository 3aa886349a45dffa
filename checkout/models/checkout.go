package models

// CheckoutState is the persisted checkout_storage document.
type CheckoutState struct {
	Left      *Details   `json:"left,omitempty"`
	SavedCard *SavedCard `json:"savedCard,omitempty"`
}

// Details is the left column of the checkout page.
type Details struct {
	BillingInfo    BillingInfo    `json:"billingInfo"`
	ShippingInfo   ShippingInfo   `json:"shippingInfo"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod"`
}

type BillingInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type ShippingInfo struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}
