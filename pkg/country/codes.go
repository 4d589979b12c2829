package country

import (
	"slices"
	"strings"
)

// isoCodes lists the officially assigned ISO 3166-1 alpha-2 codes.
var isoCodes = strings.Fields(`
AD AE AF AG AI AL AM AO AQ AR AS AT AU AW AX AZ
BA BB BD BE BF BG BH BI BJ BL BM BN BO BQ BR BS BT BV BW BY BZ
CA CC CD CF CG CH CI CK CL CM CN CO CR CU CV CW CX CY CZ
DE DJ DK DM DO DZ
EC EE EG EH ER ES ET
FI FJ FK FM FO FR
GA GB GD GE GF GG GH GI GL GM GN GP GQ GR GS GT GU GW GY
HK HM HN HR HT HU
ID IE IL IM IN IO IQ IR IS IT
JE JM JO JP
KE KG KH KI KM KN KP KR KW KY KZ
LA LB LC LI LK LR LS LT LU LV LY
MA MC MD ME MF MG MH MK ML MM MN MO MP MQ MR MS MT MU MV MW MX MY MZ
NA NC NE NF NG NI NL NO NP NR NU NZ
OM
PA PE PF PG PH PK PL PM PN PR PS PT PW PY
QA
RE RO RS RU RW
SA SB SC SD SE SG SH SI SJ SK SL SM SN SO SR SS ST SV SX SY SZ
TC TD TF TG TH TJ TK TL TM TN TO TR TT TV TW TZ
UA UG UM US UY UZ
VA VC VE VG VI VN VU
WF WS
YE YT
ZA ZM ZW
`)

var assigned = func() map[Code]bool {
	m := make(map[Code]bool, len(isoCodes))
	for _, c := range isoCodes {
		m[Code(c)] = true
	}
	return m
}()

// Codes returns every assigned ISO 3166-1 alpha-2 code in alphabetical order.
func Codes() []Code {
	out := make([]Code, len(isoCodes))
	for i, c := range isoCodes {
		out[i] = Code(c)
	}
	return out
}

// Assigned reports whether c is an officially assigned code.
func (c Code) Assigned() bool {
	return assigned[c]
}

// ParseList splits a comma or whitespace separated list into codes,
// skipping blanks and collapsing duplicates while keeping order.
func ParseList(s string) ([]Code, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	var out []Code
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// WithAll returns codes with the sentinel at the front. If the sentinel is
// already present the input is returned unchanged.
func WithAll(codes []Code) []Code {
	if slices.Contains(codes, All) {
		return codes
	}
	out := make([]Code, 0, len(codes)+1)
	out = append(out, All)
	return append(out, codes...)
}

// Matches reports whether code passes a filter set to selected.
// Selecting All, or nothing, matches every code.
func Matches(selected, code Code) bool {
	if selected == "" || selected.IsAll() {
		return true
	}
	return selected == code
}
