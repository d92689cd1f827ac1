package notify

import "strings"

// Region holds the dialing rules used to turn a stored patient number into
// the international format the SMS provider expects.
type Region struct {
	CountryCode  string // e.g. "20"
	MobilePrefix string // local trunk prefix, e.g. "01"
	LocalDigits  int    // expected digit count of a local mobile number
}

// FormatPhone normalizes a free-form phone number, best effort. The result
// is not guaranteed to be a valid number; a bad guess is allowed to fail at
// the provider instead of blocking the rest of the transition.
func (r Region) FormatPhone(phone string) string {
	var b strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	cleaned := b.String()

	// Local mobile number, e.g. "01012345678": the trunk zero doubles as
	// the trailing zero of the country code ("+2" + "01..." = "+201...").
	if strings.HasPrefix(cleaned, r.MobilePrefix) && len(cleaned) == r.LocalDigits {
		return "+" + r.CountryCode[:len(r.CountryCode)-1] + cleaned
	}

	// Already carries the country code.
	withCC := r.CountryCode + strings.TrimPrefix(r.MobilePrefix, "0")
	if strings.HasPrefix(cleaned, withCC) && len(cleaned) == len(r.CountryCode)+r.LocalDigits-1 {
		return "+" + cleaned
	}

	// Fallback: assume a bare national number.
	return "+" + r.CountryCode + cleaned
}
