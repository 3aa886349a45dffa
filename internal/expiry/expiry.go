// Package expiry evaluates card expiry dates typed as MM/YY.
package expiry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FullYear expands a two digit year into 20YY. Four digit years pass through.
func FullYear(yy int) int {
	if yy < 100 {
		return 2000 + yy
	}
	return yy
}

// EndOfMonth returns the last instant of the month in loc.
func EndOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	firstNext := time.Date(year, month, 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return firstNext.Add(-time.Nanosecond)
}

// Valid reports whether a card expiring in mm/yy can still be used at now.
// A card is good through the last instant of its expiry month, evaluated in
// now's location.
func Valid(mm, yy int, now time.Time) bool {
	if mm < 1 || mm > 12 || yy < 0 {
		return false
	}
	end := EndOfMonth(FullYear(yy), time.Month(mm), now.Location())
	return !end.Before(now)
}

// ValidFace parses a card face expiry and checks it against now.
func ValidFace(face string, now time.Time) bool {
	mm, yy, err := ParseCardFace(face)
	if err != nil {
		return false
	}
	return Valid(mm, yy, now)
}

// ParseCardFace accepts "MM/YY", "M/YY", "MM/YYYY" or "MMYY".
func ParseCardFace(in string) (mm, yy int, err error) {
	s := strings.TrimSpace(in)
	var mmS, yyS string
	if i := strings.IndexByte(s, '/'); i >= 0 {
		mmS, yyS = s[:i], s[i+1:]
	} else if len(s) == 4 {
		mmS, yyS = s[:2], s[2:]
	} else {
		return 0, 0, fmt.Errorf("expiry must be MM/YY")
	}
	if mmS == "" || yyS == "" || !digits(mmS) || !digits(yyS) {
		return 0, 0, fmt.Errorf("expiry must be digits: MM/YY")
	}
	if len(yyS) != 2 && len(yyS) != 4 {
		return 0, 0, fmt.Errorf("expiry year must be YY or YYYY")
	}
	mm, _ = strconv.Atoi(mmS)
	yy, _ = strconv.Atoi(yyS)
	if mm < 1 || mm > 12 {
		return 0, 0, fmt.Errorf("month must be 01..12")
	}
	return mm, yy, nil
}

// FormatInput reformats whatever was typed into the expiry field as MM/YY,
// keeping at most four digits.
func FormatInput(v string) string {
	d := make([]byte, 0, 4)
	for i := 0; i < len(v) && len(d) < 4; i++ {
		if v[i] >= '0' && v[i] <= '9' {
			d = append(d, v[i])
		}
	}
	if len(d) <= 2 {
		return string(d)
	}
	return string(d[:2]) + "/" + string(d[2:])
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
