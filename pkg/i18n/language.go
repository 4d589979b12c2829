// Package i18n provides shared multi-language support: language definitions,
// the localized message catalog, region display names and language detection.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Language represents a supported UI language.
type Language string

const (
	LangEN Language = "en" // English (default)
	LangFR Language = "fr" // French
	LangSW Language = "sw" // Swahili
	LangES Language = "es" // Spanish
	LangDE Language = "de" // German
	LangZH Language = "zh" // Chinese
	LangJA Language = "ja" // Japanese
	LangKO Language = "ko" // Korean
)

// DefaultLanguage is used when nothing better is known.
const DefaultLanguage = LangEN

// AllLanguages is the list of all supported languages.
var AllLanguages = []Language{LangEN, LangFR, LangSW, LangES, LangDE, LangZH, LangJA, LangKO}

// LanguageName returns the human-readable display name of a language.
func LanguageName(lang Language) string {
	switch lang {
	case LangEN:
		return "English"
	case LangFR:
		return "Français"
	case LangSW:
		return "Kiswahili"
	case LangES:
		return "Español"
	case LangDE:
		return "Deutsch"
	case LangZH:
		return "中文"
	case LangJA:
		return "日本語"
	case LangKO:
		return "한국어"
	default:
		return string(lang)
	}
}

// Tag returns the BCP 47 tag for lang.
func (lang Language) Tag() language.Tag {
	return language.Make(string(lang))
}

// IsValidLanguage checks if a language code is supported.
func IsValidLanguage(lang string) bool {
	for _, l := range AllLanguages {
		if Language(lang) == l {
			return true
		}
	}
	return false
}

// ParseLanguages splits a comma-separated language string and validates each.
func ParseLanguages(s string) []Language {
	parts := strings.Split(s, ",")
	var langs []Language
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if IsValidLanguage(p) {
			langs = append(langs, Language(p))
		}
	}
	if len(langs) == 0 {
		return []Language{DefaultLanguage}
	}
	return langs
}

// ParseTag parses any BCP 47 tag such as "fr", "sw-KE" or "pt_BR".
// Unlike ParseLanguages it accepts languages without a catalog; those still
// get localized region names and fall back to English messages.
func ParseTag(s string) (language.Tag, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" {
		return language.Und, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
