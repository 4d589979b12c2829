// Package picker turns lists of country codes into flag-decorated, localized
// labels for list and dropdown widgets.
package picker

import (
	"github.com/RobinCoderZhao/countrykit/pkg/country"
	"github.com/RobinCoderZhao/countrykit/pkg/i18n"
	"golang.org/x/text/language"
)

// Formatter builds display labels. It holds no mutable state.
type Formatter struct {
	strings i18n.Strings
}

// NewFormatter creates a formatter backed by strings. A nil strings uses the
// embedded catalog.
func NewFormatter(strings i18n.Strings) *Formatter {
	if strings == nil {
		strings = i18n.Default()
	}
	return &Formatter{strings: strings}
}

// Format returns the label for code in lang, e.g. "🇰🇪 Kenya". The sentinel
// yields the localized all-countries phrase decorated with the globe.
func (f *Formatter) Format(code country.Code, lang language.Tag) string {
	code = country.Normalize(string(code))
	if code.IsAll() {
		return f.strings.Format(lang, i18n.KeyAllCountries, country.GlobeEmoji)
	}
	return f.strings.Format(lang, i18n.KeyCountryWithEmoji, code.Flag(), i18n.RegionName(lang, string(code)))
}

// SentinelCode returns the code that stands for every country.
func SentinelCode() country.Code {
	return country.All
}

// ItemCount returns the number of entries in codes.
func ItemCount(codes []country.Code) int {
	return len(codes)
}

// ItemAt returns the code at position, or false when position is outside codes.
func ItemAt(codes []country.Code, position int) (country.Code, bool) {
	if position < 0 || position >= len(codes) {
		return "", false
	}
	return codes[position], true
}
