package models

import "strings"

// PaymentMethod is the channel a withdrawal is paid out through.
type PaymentMethod string

const (
	TELEBIRR PaymentMethod = "telebirr"
	CBE      PaymentMethod = "cbe"
	BOA      PaymentMethod = "boa"
)

// PaymentMethods lists the accepted methods in menu order. The dialogue
// offers them as options 1, 2 and 3.
var PaymentMethods = []PaymentMethod{TELEBIRR, CBE, BOA}

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// MatchPaymentMethod resolves free text to a payment method. The text matches
// a method when it contains the method's menu digit or, case-insensitively, its
// name. Methods are tried in menu order and the first match wins.
func MatchPaymentMethod(text string) (PaymentMethod, bool) {
	lower := strings.ToLower(text)
	for i, m := range PaymentMethods {
		digit := string(rune('1' + i))
		if strings.Contains(lower, digit) || strings.Contains(lower, string(m)) {
			return m, true
		}
	}
	return "", false
}
