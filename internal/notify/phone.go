package notify

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D`)

// FormatPhoneToE164 normalises US numbers to +1XXXXXXXXXX. Anything that is
// not a recognisable US number is returned unchanged.
func FormatPhoneToE164(phone string) string {
	if phone == "" {
		return ""
	}
	digits := nonDigit.ReplaceAllString(phone, "")
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits
	default:
		return phone
	}
}

// IsValidPhone accepts 10 digits, or 11 digits with a leading 1.
func IsValidPhone(phone string) bool {
	digits := nonDigit.ReplaceAllString(phone, "")
	return len(digits) == 10 || (len(digits) == 11 && strings.HasPrefix(digits, "1"))
}

// FormatUSD renders whole dollars with thousands separators, e.g. $1,235.
func FormatUSD(amount float64) string {
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s", sign, b.String())
}
