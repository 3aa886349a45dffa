package billing

import "strings"

const countryCode = "234"

// NormalizePhone rewrites a Nigerian number as "+234 DDD DDD DDDD". Local
// forms (0XXXXXXXXXX or ten bare digits) get the country code. Anything it
// cannot place is returned exactly as given.
func NormalizePhone(raw string) string {
	d := strings.Map(func(r rune) rune {
		if r < '0' || r > '9' {
			return -1
		}
		return r
	}, raw)

	switch {
	case len(d) == 11 && d[0] == '0':
		d = countryCode + d[1:]
	case len(d) == 10:
		d = countryCode + d
	}
	if len(d) != 13 || !strings.HasPrefix(d, countryCode) {
		return raw
	}
	return "+" + d[:3] + " " + d[3:6] + " " + d[6:9] + " " + d[9:]
}
