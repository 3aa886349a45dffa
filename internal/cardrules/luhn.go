package cardrules

// LuhnValid reports whether the digits of number pass the Luhn checksum.
// An input without digits is never valid.
func LuhnValid(number string) bool {
	d := OnlyDigits(number)
	if d == "" {
		return false
	}
	return luhnSum(d, false)%10 == 0
}

// luhnSum walks s from the right. When dblFirst is set the rightmost digit is
// doubled, which is what computing a check digit for a body needs.
func luhnSum(s string, dblFirst bool) int {
	sum, dbl := 0, dblFirst
	for i := len(s) - 1; i >= 0; i-- {
		n := int(s[i] - '0')
		if dbl {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		dbl = !dbl
	}
	return sum
}

func luhnCheckDigit(body string) byte {
	cd := (10 - luhnSum(body, true)%10) % 10
	return '0' + byte(cd)
}
