package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/RobinCoderZhao/countrykit/pkg/country"
	"github.com/RobinCoderZhao/countrykit/pkg/picker"
	"golang.org/x/text/language"
)

func testRows() []picker.Row {
	a := picker.NewAdapter([]country.Code{country.All, "KE", "UG", "TZ"}, language.English, nil)
	return a.Rows()
}

func TestEncode(t *testing.T) {
	r := NewListRenderer()
	rows := testRows()

	var buf bytes.Buffer
	if err := r.Encode(&buf, "Select a country", rows); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	wantW, wantH := r.Size(len(rows))
	if b := img.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
		t.Fatalf("expected %dx%d, got %dx%d", wantW, wantH, b.Dx(), b.Dy())
	}
}

func TestRenderPNG(t *testing.T) {
	r := NewListRenderer()
	r.FontPath = "/nonexistent/font.ttf"

	out := filepath.Join(t.TempDir(), "countries.png")
	if err := r.RenderPNG("Select a country", testRows(), out); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("expected non-empty image")
	}
	if r.FontPath != "/nonexistent/font.ttf" {
		t.Fatalf("expected renderer config to be kept, got %q", r.FontPath)
	}
}

func TestEncode_SharedRenderer(t *testing.T) {
	r := NewListRenderer()
	r.FontPath = "/nonexistent/font.ttf"

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			errs <- r.Encode(&buf, "Select a country", testRows())
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}
	if r.FontPath != "/nonexistent/font.ttf" {
		t.Fatalf("expected FontPath to survive concurrent renders, got %q", r.FontPath)
	}
}

func TestSize_Empty(t *testing.T) {
	w, h := NewListRenderer().Size(0)
	if w != 720 || h != 96 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
}
