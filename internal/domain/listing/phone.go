package listing

import "regexp"

const phoneMask = "(XXX) XXX-XXXX"

var canonicalPhone = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)

// FormatPhoneNumber reshapes keyboard input into (XXX) XXX-XXXX. Partial
// input yields a partial mask, so "555" becomes "(555".
func FormatPhoneNumber(raw string) string {
	digits := phoneDigits(raw)
	out := make([]byte, 0, len(phoneMask))
	next := 0
	for i := 0; i < len(phoneMask) && next < len(digits); i++ {
		if phoneMask[i] == 'X' {
			out = append(out, digits[next])
			next++
			continue
		}
		out = append(out, phoneMask[i])
	}
	return string(out)
}

// IsValidPhoneNumber reports whether s is already in canonical form.
func IsValidPhoneNumber(s string) bool {
	return canonicalPhone.MatchString(s)
}

func phoneDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			out = append(out, c)
		}
	}
	return string(out)
}
