package country

// GlobeEmoji decorates labels that do not name a single country.
const GlobeEmoji = "🌍"

// UnknownFlag is returned by Flag for codes that are not two letters A-Z.
const UnknownFlag = "🌐"

// regionalIndicatorA is REGIONAL INDICATOR SYMBOL LETTER A.
const regionalIndicatorA = 0x1F1E6

// Flag converts c into its flag emoji: each letter maps to the regional
// indicator symbol at the same offset from A (A = U+1F1E6 ... Z = U+1F1FF).
func (c Code) Flag() string {
	if !c.Valid() {
		return UnknownFlag
	}
	first := rune(regionalIndicatorA + int32(c[0]-'A'))
	second := rune(regionalIndicatorA + int32(c[1]-'A'))
	return string([]rune{first, second})
}

// IsRegionalIndicator reports whether r lies in U+1F1E6..U+1F1FF.
func IsRegionalIndicator(r rune) bool {
	return r >= regionalIndicatorA && r <= regionalIndicatorA+25
}
