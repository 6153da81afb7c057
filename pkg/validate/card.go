package validate

import (
	"github.com/ShiraazMoollatjie/goluhn"
)

const cardNumberLength = 16

func IsLuhn(s string) bool {
	return goluhn.Validate(s) == nil
}

// IsCardNumber reports whether s is a 16 digit Luhn-valid card number.
func IsCardNumber(s string) bool {
	if len(s) != cardNumberLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return IsLuhn(s)
}
