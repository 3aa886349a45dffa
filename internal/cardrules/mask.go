package cardrules

// MaskForStorage hides everything but the last four digits of a card number.
// Fifteen digit numbers keep the amex 4-6-5 layout. A CVV is never stored,
// so it is not an input.
func MaskForStorage(number string) string {
	d := OnlyDigits(number)
	if d == "" {
		return ""
	}
	last4 := LastN(d, 4)
	if len(d) == 15 {
		return "****-******-*" + last4
	}
	return "****-****-****-" + last4
}
