package models

// SavedCard is what survives of a card after checkout: a masked number, the
// expiry as typed (MM/YY) and the detected brand. Never the CVV.
type SavedCard struct {
	MaskedNumber string `json:"maskedNumber"`
	Expiry       string `json:"expiry"`
	Brand        string `json:"brand"`
}

type SaveCard struct {
	Number string `json:"number" validate:"required"`
	Expiry string `json:"expiry"`
}

// CardInput is the raw payment section of the checkout form.
type CardInput struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// CardInspection describes how a partially or fully typed number is treated.
type CardInspection struct {
	Brand     string `json:"brand"`
	Formatted string `json:"formatted"`
	Masked    string `json:"masked"`
	MaxDigits int    `json:"maxDigits"`
	CVVLength int    `json:"cvvLength"`
	LuhnValid bool   `json:"luhnValid"`
}
