package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Message keys shared by every locale file.
const (
	KeyAllCountries     = "all_countries_with_emoji"
	KeyCountryWithEmoji = "country_with_emoji"
	KeyPickerTitle      = "country_picker_title"
	KeyNoChannels       = "no_channels_in_country"
)

// BaseLocale is the locale every other locale falls back to.
const BaseLocale = "en"

// Strings resolves localized messages for a language.
type Strings interface {
	// String returns the message for key.
	String(lang language.Tag, key string) string
	// Format returns the message for key with args substituted.
	Format(lang language.Tag, key string, args ...any) string
}

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog is an immutable set of localized messages. It is safe for
// concurrent use.
type Catalog struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
	keys    []string
}

//go:embed locales/*.yaml
var embeddedLocales embed.FS

var defaultCatalog = mustLoadEmbedded()

// Default returns the catalog built from the embedded locale files.
func Default() *Catalog {
	return defaultCatalog
}

func mustLoadEmbedded() *Catalog {
	c, err := LoadCatalog(embeddedLocales)
	if err != nil {
		panic(fmt.Sprintf("load embedded locales: %v", err))
	}
	return c
}

// LoadCatalog reads locales/*.yaml from fsys. Each file must name the locale
// matching its file name. Keys missing from a locale are filled from BaseLocale.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	files := make(map[string]localeFile, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", p, err)
		}
		var f localeFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", p, err)
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		f.Locale = strings.TrimSpace(f.Locale)
		if f.Locale != name {
			return nil, fmt.Errorf("locale %s: locale %q must match file name %q", p, f.Locale, name)
		}
		if len(f.Messages) == 0 {
			return nil, fmt.Errorf("locale %s: messages map is required", p)
		}
		files[f.Locale] = f
	}

	base, ok := files[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}

	// The matcher treats its first tag as the default.
	locales := make([]string, 0, len(files))
	for l := range files {
		if l != BaseLocale {
			locales = append(locales, l)
		}
	}
	sort.Strings(locales)
	locales = append([]string{BaseLocale}, locales...)

	keys := make([]string, 0, len(base.Messages))
	for k := range base.Messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c := &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
		keys:    keys,
	}
	for _, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", l, err)
		}
		c.tags = append(c.tags, tag)
		msgs := files[l].Messages
		for _, key := range keys {
			value, ok := msgs[key]
			if !ok {
				value = base.Messages[key]
			}
			if err := c.builder.SetString(tag, key, value); err != nil {
				return nil, fmt.Errorf("register %s/%s: %w", l, key, err)
			}
		}
		for key := range msgs {
			if _, ok := base.Messages[key]; !ok {
				return nil, fmt.Errorf("locale %s: key %q is not defined in %s", l, key, BaseLocale)
			}
		}
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Languages returns the catalog's locales, base locale first.
func (c *Catalog) Languages() []language.Tag {
	out := make([]language.Tag, len(c.tags))
	copy(out, c.tags)
	return out
}

// Keys returns every message key in sorted order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Match returns the catalog locale that best serves lang.
func (c *Catalog) Match(lang language.Tag) language.Tag {
	_, idx, _ := c.matcher.Match(lang)
	return c.tags[idx]
}

func (c *Catalog) printer(lang language.Tag) *message.Printer {
	return message.NewPrinter(c.Match(lang), message.Catalog(c.builder))
}

func (c *Catalog) String(lang language.Tag, key string) string {
	return c.printer(lang).Sprintf(key)
}

func (c *Catalog) Format(lang language.Tag, key string, args ...any) string {
	return c.printer(lang).Sprintf(key, args...)
}
