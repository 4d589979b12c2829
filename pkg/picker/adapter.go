package picker

import (
	"log/slog"

	"github.com/RobinCoderZhao/countrykit/pkg/country"
	"golang.org/x/text/language"
)

// Row is the rendered view of one list position.
type Row struct {
	Position int          `json:"position"`
	Code     country.Code `json:"code"`
	Text     string       `json:"text"`
}

// SelectListener is notified when the user picks a country.
type SelectListener interface {
	CountrySelect(code country.Code)
}

// SelectFunc adapts a function to SelectListener.
type SelectFunc func(code country.Code)

func (f SelectFunc) CountrySelect(code country.Code) { f(code) }

// Adapter exposes a fixed list of codes through the callbacks a list widget
// expects. Every row has the same layout, so rows can always be recycled.
// An Adapter is not safe for concurrent use.
type Adapter struct {
	codes     []country.Code
	lang      language.Tag
	formatter *Formatter
	listener  SelectListener
	inflated  int
	logger    *slog.Logger
}

// NewAdapter creates an adapter over codes rendered in lang.
func NewAdapter(codes []country.Code, lang language.Tag, formatter *Formatter) *Adapter {
	if formatter == nil {
		formatter = NewFormatter(nil)
	}
	return &Adapter{
		codes:     codes,
		lang:      lang,
		formatter: formatter,
		logger:    slog.Default(),
	}
}

// SetSelectListener registers l to receive selections.
func (a *Adapter) SetSelectListener(l SelectListener) {
	a.listener = l
}

// Language returns the language rows are rendered in.
func (a *Adapter) Language() language.Tag {
	return a.lang
}

// Count returns the number of rows.
func (a *Adapter) Count() int {
	return ItemCount(a.codes)
}

// Item returns the code at position.
func (a *Adapter) Item(position int) (country.Code, bool) {
	return ItemAt(a.codes, position)
}

// ItemID returns a stable identity for position.
func (a *Adapter) ItemID(position int) int64 {
	return int64(position)
}

// ViewType returns the row layout kind for position. There is only one.
func (a *Adapter) ViewType(position int) int {
	return 0
}

// ViewTypeCount returns the number of distinct row layouts.
func (a *Adapter) ViewTypeCount() int {
	return 1
}

// Position returns the index of code, or -1.
func (a *Adapter) Position(code country.Code) int {
	for i, c := range a.codes {
		if c == code {
			return i
		}
	}
	return -1
}

// RenderRow fills recycled with the row at position, or inflates a new row
// when recycled is nil. It returns nil for positions outside the list.
func (a *Adapter) RenderRow(position int, recycled *Row) *Row {
	code, ok := a.Item(position)
	if !ok {
		a.logger.Debug("render out of range", "position", position, "count", a.Count())
		return nil
	}
	row := recycled
	if row == nil {
		row = &Row{}
		a.inflated++
	}
	row.Position = position
	row.Code = code
	row.Text = a.formatter.Format(code, a.lang)
	return row
}

// Inflated returns how many rows RenderRow has created rather than reused.
func (a *Adapter) Inflated() int {
	return a.inflated
}

// Rows renders every position into fresh rows.
func (a *Adapter) Rows() []Row {
	rows := make([]Row, 0, a.Count())
	var scratch Row
	for i := range a.codes {
		rows = append(rows, *a.RenderRow(i, &scratch))
	}
	return rows
}

// Labels returns the text of every row in list order.
func (a *Adapter) Labels() []string {
	labels := make([]string, 0, a.Count())
	for _, r := range a.Rows() {
		labels = append(labels, r.Text)
	}
	return labels
}

// Select reports the code at position to the listener. It returns false when
// position is out of range.
func (a *Adapter) Select(position int) bool {
	code, ok := a.Item(position)
	if !ok {
		return false
	}
	a.logger.Debug("country selected", "code", code, "position", position)
	if a.listener != nil {
		a.listener.CountrySelect(code)
	}
	return true
}
