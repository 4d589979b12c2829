// Package render draws country picker rows as PNG images, e.g. for chat bots
// and store listings that cannot show a live dropdown.
package render

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"strings"

	"github.com/RobinCoderZhao/countrykit/pkg/picker"
	"github.com/fogleman/gg"
)

// ListRenderer renders picker rows as a single-column PNG list.
type ListRenderer struct {
	Width     float64
	RowHeight float64
	HeaderH   float64
	PadLeft   float64
	FontSize  float64
	TitleSize float64
	// FontPath is a TrueType font with emoji and CJK glyphs. When empty or
	// unreadable gg's built-in face is used.
	FontPath string

	logger *slog.Logger
}

// NewListRenderer creates a renderer 720px wide.
func NewListRenderer() *ListRenderer {
	return &ListRenderer{
		Width:     720,
		RowHeight: 48,
		HeaderH:   72,
		PadLeft:   24,
		FontSize:  20,
		TitleSize: 26,
		logger:    slog.Default(),
	}
}

// Size returns the image dimensions for n rows.
func (r *ListRenderer) Size(n int) (int, int) {
	return int(r.Width), int(r.HeaderH + float64(n)*r.RowHeight + r.RowHeight/2)
}

// RenderPNG writes the rows to outputPath.
func (r *ListRenderer) RenderPNG(title string, rows []picker.Row, outputPath string) error {
	dc := r.draw(title, rows)
	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("save png %s: %w", outputPath, err)
	}
	return nil
}

// Encode writes the rows as PNG to w.
func (r *ListRenderer) Encode(w io.Writer, title string, rows []picker.Row) error {
	return r.draw(title, rows).EncodePNG(w)
}

func (r *ListRenderer) draw(title string, rows []picker.Row) *gg.Context {
	width, height := r.Size(len(rows))
	dc := gg.NewContext(width, height)

	dc.SetColor(hexColor("#f7f7fa"))
	dc.Clear()

	// Header
	dc.SetColor(hexColor("#1a1a3e"))
	dc.DrawRectangle(0, 0, r.Width, r.HeaderH)
	dc.Fill()
	fontOK := r.loadFont(dc, r.TitleSize)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(title, r.PadLeft, r.HeaderH/2, 0, 0.5)

	if fontOK {
		r.loadFont(dc, r.FontSize)
	}
	y := r.HeaderH
	for i, row := range rows {
		if i%2 == 1 {
			dc.SetColor(hexColor("#ececf3"))
			dc.DrawRectangle(0, y, r.Width, r.RowHeight)
			dc.Fill()
		}
		dc.SetColor(hexColor("#202030"))
		dc.DrawStringAnchored(row.Text, r.PadLeft, y+r.RowHeight/2, 0, 0.5)

		dc.SetColor(hexColor("#8888aa"))
		dc.DrawStringAnchored(string(row.Code), r.Width-r.PadLeft, y+r.RowHeight/2, 1, 0.5)

		dc.SetColor(hexColor("#d0d0dc"))
		dc.SetLineWidth(1)
		dc.DrawLine(r.PadLeft, y+r.RowHeight, r.Width-r.PadLeft, y+r.RowHeight)
		dc.Stroke()

		y += r.RowHeight
	}
	return dc
}

// loadFont sets FontPath at size on dc. It reports false when dc keeps
// gg's built-in face.
func (r *ListRenderer) loadFont(dc *gg.Context, size float64) bool {
	if r.FontPath == "" {
		return false
	}
	if err := dc.LoadFontFace(r.FontPath, size); err != nil {
		logger := r.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("font not loaded, using built-in face", "path", r.FontPath, "error", err)
		return false
	}
	return true
}

func hexColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	var cr, cg, cb uint8
	fmt.Sscanf(hex, "%02x%02x%02x", &cr, &cg, &cb)
	return color.RGBA{cr, cg, cb, 255}
}
