package cardrules

import (
	"fmt"
	"time"

	"github.com/novacart/checkout/checkout/models"
	"github.com/novacart/checkout/internal/expiry"
)

const minDigits = 13

// Field names used in payment problems.
const (
	FieldCardNumber = "cardNumber"
	FieldExpiry     = "expiry"
	FieldCVV        = "cvv"
)

// ValidatePayment checks the payment section of the form. The card number
// yields at most one problem (short, long, then checksum); expiry and CVV are
// checked regardless of how the number fared.
func ValidatePayment(in models.CardInput, now time.Time) []models.Problem {
	var problems []models.Problem
	number := OnlyDigits(in.Number)
	brand := DetectBrand(number)

	switch {
	case len(number) < minDigits:
		problems = append(problems, models.Problem{Field: FieldCardNumber, Message: "Card number is too short."})
	case len(number) > MaxDigits(brand):
		problems = append(problems, models.Problem{Field: FieldCardNumber, Message: "Card number is too long."})
	case !LuhnValid(number):
		problems = append(problems, models.Problem{Field: FieldCardNumber, Message: "Card number failed validation."})
	}

	if !expiry.ValidFace(in.Expiry, now) {
		problems = append(problems, models.Problem{Field: FieldExpiry, Message: "Invalid expiry (MM/YY)."})
	}

	want := RequiredCVVLength(brand)
	if cvv := OnlyDigits(in.CVV); len(cvv) != want {
		problems = append(problems, models.Problem{Field: FieldCVV, Message: fmt.Sprintf("CVV must be %d digits.", want)})
	}
	return problems
}

// Inspect reports everything the form derives from a typed card number.
func Inspect(number string) models.CardInspection {
	d := OnlyDigits(number)
	brand := DetectBrand(d)
	return models.CardInspection{
		Brand:     string(brand),
		Formatted: FormatForDisplay(d, brand),
		Masked:    MaskForStorage(d),
		MaxDigits: MaxDigits(brand),
		CVVLength: RequiredCVVLength(brand),
		LuhnValid: LuhnValid(d),
	}
}
