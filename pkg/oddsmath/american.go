// Package oddsmath converts between American and decimal odds notation and
// compounds parlay prices. Decimal odds are the canonical internal form; the
// American string form is display-only and lossy, so all math operates on
// retained decimal values.
package oddsmath

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// americanPattern matches a signed integer price, e.g. "-150" or "+130".
// The sign is mandatory.
var americanPattern = regexp.MustCompile(`^[+-]\d+$`)

// FormatError reports a malformed American odds string
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid American odds %q: %s", e.Input, e.Reason)
}

// ParseAmerican validates and parses an American odds string.
// The magnitude must be an integer >= 100; zero magnitude is invalid.
func ParseAmerican(s string) (int, error) {
	if !americanPattern.MatchString(s) {
		return 0, &FormatError{Input: s, Reason: "must be a signed integer like -150 or +130"}
	}

	value, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FormatError{Input: s, Reason: "magnitude out of range"}
	}

	magnitude := value
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if magnitude < 100 {
		return 0, &FormatError{Input: s, Reason: "magnitude must be at least 100"}
	}

	return value, nil
}

// AmericanToDecimal converts a parsed American price to decimal odds.
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american >= -99 && american <= 99 {
		return 0, &FormatError{
			Input:  FormatAmerican(american),
			Reason: "magnitude must be at least 100",
		}
	}

	if american > 0 {
		return 1.0 + float64(american)/100.0, nil
	}
	return 1.0 + 100.0/float64(-american), nil
}

// ToDecimal parses an American odds string and converts it to decimal odds
func ToDecimal(s string) (float64, error) {
	american, err := ParseAmerican(s)
	if err != nil {
		return 0, err
	}
	return AmericanToDecimal(american)
}

// DecimalToAmerican converts decimal odds back to an American price,
// rounding half away from zero. Decimal 2.0 canonicalizes to +100, so the
// even-money prices -100 and +100 both display as +100.
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("invalid decimal odds %v: must be greater than 1.0", decimal)
	}

	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}
	return -int(math.Round(100.0 / (decimal - 1.0))), nil
}

// ToAmerican converts decimal odds to the display string form
func ToAmerican(decimal float64) (string, error) {
	american, err := DecimalToAmerican(decimal)
	if err != nil {
		return "", err
	}
	return FormatAmerican(american), nil
}

// FormatAmerican renders a parsed price with its explicit sign
func FormatAmerican(american int) string {
	return fmt.Sprintf("%+d", american)
}
