// Package entropy estimates password strength in bits.
//
// The estimate assumes each character is drawn uniformly at random from the
// union of the character classes present in the password. Human-chosen
// passwords are far less random than that, so the result is an upper bound
// on real strength, not a true entropy measure. It is still good enough to
// separate "password1" from a generator's output, which is all the hygiene
// engine needs.
package entropy

import (
	"math"
	"unicode"
)

// Alphabet sizes per character class. The symbol alphabet is fixed at 32 as
// a conservative estimate of the printable ASCII punctuation set; the true
// count depends on what a site accepts, which we cannot know.
const (
	lowerAlphabet  = 26
	upperAlphabet  = 26
	digitAlphabet  = 10
	symbolAlphabet = 32
)

// EstimateBits returns the estimated strength of password in bits.
//
// It determines which of four character classes (lowercase, uppercase,
// digit, symbol) are present, sums their alphabet sizes, and returns
// round(len(password) * log2(alphabet)). The empty string scores 0.
//
// The function is pure: same input, same output, no side effects. Cluster
// classification depends on that stability.
func EstimateBits(password string) int {
	if password == "" {
		return 0
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	length := 0
	for _, r := range password {
		length++
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	alphabet := 0
	if hasLower {
		alphabet += lowerAlphabet
	}
	if hasUpper {
		alphabet += upperAlphabet
	}
	if hasDigit {
		alphabet += digitAlphabet
	}
	if hasSymbol {
		alphabet += symbolAlphabet
	}

	if alphabet == 0 {
		return 0
	}

	return int(math.Round(float64(length) * math.Log2(float64(alphabet))))
}
