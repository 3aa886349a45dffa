package cardrules

import "strings"

const groupSeparator = "-"

// FormatForDisplay groups the digits of number for an input field: 4-6-5 for
// amex and blocks of four otherwise. Digits beyond MaxDigits(brand) are dropped.
func FormatForDisplay(number string, brand Brand) string {
	d := OnlyDigits(number)
	if limit := MaxDigits(brand); len(d) > limit {
		d = d[:limit]
	}
	if d == "" {
		return ""
	}

	var parts []string
	if brand == BrandAmex {
		for _, bounds := range [][2]int{{0, 4}, {4, 10}, {10, 15}} {
			if bounds[0] >= len(d) {
				break
			}
			end := bounds[1]
			if end > len(d) {
				end = len(d)
			}
			parts = append(parts, d[bounds[0]:end])
		}
	} else {
		for i := 0; i < len(d); i += 4 {
			end := i + 4
			if end > len(d) {
				end = len(d)
			}
			parts = append(parts, d[i:end])
		}
	}
	return strings.Join(parts, groupSeparator)
}
