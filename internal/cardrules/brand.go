package cardrules

import "regexp"

type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandVerve      Brand = "verve"
	BrandAmex       Brand = "amex"
	BrandDiscover   Brand = "discover"
	BrandInvalid    Brand = "invalid"
)

// brandRules are evaluated top to bottom and the first match wins.
// Order matters: 6500 and 6504-6509 are claimed by the discover rule
// before verve is consulted.
var brandRules = []struct {
	brand  Brand
	prefix *regexp.Regexp
}{
	{BrandAmex, regexp.MustCompile(`^3[47]`)},
	{BrandVisa, regexp.MustCompile(`^4`)},
	{BrandMastercard, regexp.MustCompile(`^(5[1-5]|2(2[2-9]|[3-6]\d|7[01]|720))`)},
	{BrandDiscover, regexp.MustCompile(`^(6011|65|64[4-9])`)},
	{BrandVerve, regexp.MustCompile(`^(5061|5078|6500|6504|6505|6506|6507|6508|6509)`)},
}

// DetectBrand classifies a card number by its leading digits.
// Separators and other non-digit characters are ignored.
func DetectBrand(number string) Brand {
	d := OnlyDigits(number)
	for _, rule := range brandRules {
		if rule.prefix.MatchString(d) {
			return rule.brand
		}
	}
	return BrandInvalid
}

// MaxDigits is the longest card number accepted for the brand.
func MaxDigits(b Brand) int {
	if b == BrandAmex {
		return 15
	}
	return 16
}

// RequiredCVVLength is 4 for amex and 3 for everything else, unknown brands included.
func RequiredCVVLength(b Brand) int {
	if b == BrandAmex {
		return 4
	}
	return 3
}
