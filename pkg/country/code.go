// Package country defines ISO 3166-1 alpha-2 country codes, the "all countries"
// sentinel and the regional-indicator flag derived from a code.
package country

import (
	"errors"
	"fmt"
	"strings"
)

// Code is an ISO 3166-1 alpha-2 region code such as "US", or All.
type Code string

// All is the reserved code meaning "no specific country / match all".
const All Code = "00"

// ErrInvalidCode is returned by Parse for input that is neither two letters nor All.
var ErrInvalidCode = errors.New("invalid country code")

// Parse trims and upper-cases s and checks that it is a well-formed code.
func Parse(s string) (Code, error) {
	c := Normalize(s)
	if c.IsAll() || c.Valid() {
		return c, nil
	}
	return c, fmt.Errorf("%w: %q", ErrInvalidCode, s)
}

// Normalize trims whitespace and upper-cases s without validating it.
func Normalize(s string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(s)))
}

// Valid reports whether c is exactly two ASCII letters A-Z.
// The sentinel is not a valid region code.
func (c Code) Valid() bool {
	if len(c) != 2 {
		return false
	}
	return isUpper(c[0]) && isUpper(c[1])
}

// IsAll reports whether c is the all-countries sentinel.
func (c Code) IsAll() bool {
	return c == All
}

func (c Code) String() string {
	return string(c)
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
