package picker

import (
	"strings"
	"testing"

	"github.com/RobinCoderZhao/countrykit/pkg/country"
	"github.com/RobinCoderZhao/countrykit/pkg/i18n"
	"golang.org/x/text/language"
)

func TestFormat_RegionalIndicatorsAndName(t *testing.T) {
	f := NewFormatter(nil)
	for _, lang := range []language.Tag{language.English, language.French, language.Make("sw")} {
		for a := 'A'; a <= 'Z'; a++ {
			for b := 'A'; b <= 'Z'; b++ {
				code := country.Code(string([]rune{a, b}))
				label := f.Format(code, lang)

				var indicators int
				for _, r := range label {
					if country.IsRegionalIndicator(r) {
						indicators++
					}
				}
				if indicators != 2 {
					t.Fatalf("%s/%s: expected 2 regional indicators in %q, got %d", lang, code, label, indicators)
				}
				want := code.Flag() + " " + i18n.RegionName(lang, string(code))
				if label != want {
					t.Fatalf("%s/%s: expected %q, got %q", lang, code, want, label)
				}
			}
		}
	}
}

func TestFormat_Examples(t *testing.T) {
	f := NewFormatter(nil)
	if got := f.Format("KE", language.English); got != "🇰🇪 Kenya" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := f.Format("de", language.French); got != "🇩🇪 Allemagne" {
		t.Fatalf("expected lower-case input to be normalized, got %q", got)
	}
}

func TestFormat_Sentinel(t *testing.T) {
	f := NewFormatter(nil)
	en := f.Format(SentinelCode(), language.English)
	if en != "🌍 All Countries" {
		t.Fatalf("unexpected all-countries label: %q", en)
	}
	for _, lang := range []string{"en", "en-US", "pt", "und"} {
		if got := f.Format("00", language.Make(lang)); got != en {
			t.Fatalf("%s: expected %q, got %q", lang, en, got)
		}
	}
	if got := f.Format("00", language.French); got != "🌍 Tous les pays" {
		t.Fatalf("expected localized phrase, got %q", got)
	}
}

func TestFormat_Malformed(t *testing.T) {
	f := NewFormatter(nil)
	got := f.Format("K1", language.English)
	if got != country.UnknownFlag+" K1" {
		t.Fatalf("unexpected label for malformed code: %q", got)
	}
}

func TestFormat_Deterministic(t *testing.T) {
	f := NewFormatter(nil)
	for _, code := range []country.Code{"US", "FR", "00", "TZ"} {
		first := f.Format(code, language.German)
		second := f.Format(code, language.German)
		if first != second {
			t.Fatalf("%s: %q != %q", code, first, second)
		}
	}
}

type fakeStrings struct{}

func (fakeStrings) String(_ language.Tag, key string) string { return "<" + key + ">" }
func (fakeStrings) Format(_ language.Tag, key string, args ...any) string {
	parts := []string{key}
	for _, a := range args {
		parts = append(parts, a.(string))
	}
	return strings.Join(parts, "|")
}

func TestFormat_UsesStrings(t *testing.T) {
	f := NewFormatter(fakeStrings{})
	if got := f.Format("00", language.English); got != i18n.KeyAllCountries+"|"+country.GlobeEmoji {
		t.Fatalf("unexpected sentinel label: %q", got)
	}
	if got := f.Format("US", language.English); got != i18n.KeyCountryWithEmoji+"|🇺🇸|United States" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestItemCount(t *testing.T) {
	cases := [][]country.Code{
		{},
		{"US"},
		{"US", "FR", "00"},
	}
	for _, codes := range cases {
		if got := ItemCount(codes); got != len(codes) {
			t.Fatalf("expected %d, got %d", len(codes), got)
		}
	}
}

func TestItemAt(t *testing.T) {
	if _, ok := ItemAt(nil, 0); ok {
		t.Fatal("expected absent for empty list")
	}
	if _, ok := ItemAt([]country.Code{}, 0); ok {
		t.Fatal("expected absent for empty list")
	}
	code, ok := ItemAt([]country.Code{"US"}, 0)
	if !ok || code != "US" {
		t.Fatalf("expected US, got %q (%v)", code, ok)
	}
	if _, ok := ItemAt([]country.Code{"US"}, 1); ok {
		t.Fatal("expected absent for out-of-range position")
	}
	if _, ok := ItemAt([]country.Code{"US"}, -1); ok {
		t.Fatal("expected absent for negative position")
	}
}

func TestSentinelCode(t *testing.T) {
	if SentinelCode() != "00" || SentinelCode() != SentinelCode() {
		t.Fatal("sentinel must be the constant 00")
	}
}

func TestAdapter_RenderRow(t *testing.T) {
	a := NewAdapter([]country.Code{"00", "KE", "UG"}, language.English, nil)

	row := a.RenderRow(1, nil)
	if row == nil || row.Text != "🇰🇪 Kenya" || row.Code != "KE" || row.Position != 1 {
		t.Fatalf("unexpected row: %+v", row)
	}
	reused := a.RenderRow(2, row)
	if reused != row {
		t.Fatal("expected recycled row to be reused")
	}
	if reused.Text != "🇺🇬 Uganda" {
		t.Fatalf("unexpected text: %q", reused.Text)
	}
	if a.Inflated() != 1 {
		t.Fatalf("expected 1 inflated row, got %d", a.Inflated())
	}
	if a.RenderRow(3, nil) != nil {
		t.Fatal("expected nil for out-of-range position")
	}
}

func TestAdapter_WidgetContract(t *testing.T) {
	a := NewAdapter([]country.Code{"00", "KE", "UG"}, language.English, nil)
	if a.Count() != 3 {
		t.Fatalf("expected 3, got %d", a.Count())
	}
	for i := 0; i < a.Count(); i++ {
		if a.ItemID(i) != int64(i) {
			t.Fatalf("expected id %d, got %d", i, a.ItemID(i))
		}
		if a.ViewType(i) != 0 {
			t.Fatalf("expected single view type, got %d", a.ViewType(i))
		}
	}
	if a.ViewTypeCount() != 1 {
		t.Fatalf("expected 1 view type, got %d", a.ViewTypeCount())
	}
	if a.Position("UG") != 2 || a.Position("FR") != -1 {
		t.Fatal("unexpected position lookup")
	}

	labels := a.Labels()
	if len(labels) != 3 || labels[0] != "🌍 All Countries" {
		t.Fatalf("unexpected labels: %v", labels)
	}
}

func TestAdapter_Select(t *testing.T) {
	a := NewAdapter([]country.Code{"00", "KE"}, language.English, nil)
	var picked []country.Code
	a.SetSelectListener(SelectFunc(func(code country.Code) {
		picked = append(picked, code)
	}))

	if !a.Select(1) || !a.Select(0) {
		t.Fatal("expected selections to succeed")
	}
	if a.Select(5) {
		t.Fatal("expected out-of-range selection to fail")
	}
	if len(picked) != 2 || picked[0] != "KE" || picked[1] != country.All {
		t.Fatalf("unexpected selections: %v", picked)
	}
}
