package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

// RegionName returns the name of region code as written in lang, e.g.
// ("fr", "DE") -> "Allemagne". Unknown regions come back as the code itself.
func RegionName(lang language.Tag, code string) string {
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	namer := display.Regions(lang)
	if namer == nil {
		namer = display.Regions(language.English)
	}
	if name := namer.Name(region); name != "" {
		return name
	}
	return code
}

// ResolveRequestTag picks the language for an HTTP request: the lang query
// parameter first, then the most preferred Accept-Language entry.
func ResolveRequestTag(r *http.Request, fallback language.Tag) language.Tag {
	if tag, ok := RequestTag(r); ok {
		return tag
	}
	return fallback
}

// RequestTag is ResolveRequestTag without a fallback. ok is false when the
// request names no usable language.
func RequestTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return language.Und, false
	}
	if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
		return tag, true
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return tags[0], true
		}
	}
	return language.Und, false
}
