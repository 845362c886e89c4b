package listing

import "strings"

// DefaultGreeting opens the SMS a seller sends to a buyer.
const DefaultGreeting = "Hi, I saw your listing of buying swipes on ZotSwipe."

const upperHex = "0123456789ABCDEF"

// SMSLink builds the sms: deep link for contacting the buyer of l. An empty
// greeting uses DefaultGreeting.
func SMSLink(l Listing, greeting string) string {
	if greeting == "" {
		greeting = DefaultGreeting
	}
	return escapeQuery("sms:" + phoneDigits(l.ContactPhone) + "&body=" + greeting)
}

// escapeQuery percent-encodes every byte outside the URL query character set.
// Unlike url.QueryEscape it keeps the sub-delimiters and writes spaces as %20.
func escapeQuery(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if queryAllowed(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func queryAllowed(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-._~!$&'()*+,;=:@/?", c) >= 0
}
