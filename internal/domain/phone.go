package domain

import "strings"

// DigitsOnly strips a phone number down to its digits. WhatsApp JIDs come in
// as "15551234567@s.whatsapp.net"; anything after the @ is dropped first.
func DigitsOnly(phone string) string {
	if at := strings.IndexByte(phone, '@'); at >= 0 {
		phone = phone[:at]
	}

	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// E164 returns the +-prefixed form of a phone number.
func E164(phone string) string {
	digits := DigitsOnly(phone)
	if digits == "" {
		return ""
	}
	return "+" + digits
}
