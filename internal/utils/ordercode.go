package utils

import "github.com/samber/lo"

var orderCodeCharset = append(append([]rune{}, lo.UpperCaseLettersCharset...), lo.NumbersCharset...)

// NewOrderCode returns an 8 character code drawn from A-Z and 0-9. Codes
// are not checked against existing orders.
func NewOrderCode() string {
	return lo.RandomString(8, orderCodeCharset)
}
