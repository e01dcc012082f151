package renderer_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/furigana/layout"
	"github.com/ByLCY/furigana/renderer"
)

type unitMetrics struct{}

func (unitMetrics) Measure(text string, style layout.Style) (layout.Measurement, error) {
	scale := style.EffectiveSize() / style.Size
	var adv []float64
	for range text {
		adv = append(adv, 10*scale)
	}
	return layout.Measurement{Advances: adv, Ascent: 8 * scale, Descent: 2 * scale, LineSpacing: 10 * scale}, nil
}

// recorder 按调用顺序记录绘制命令。
type recorder struct {
	calls []string
	fail  error
}

func (r *recorder) DrawAnnotationLine(anns []layout.PlacedAnnotation, y float64) error {
	for _, a := range anns {
		r.calls = append(r.calls, fmt.Sprintf("ann %s x=%g y=%g", a.Text, a.X, y))
	}
	if len(anns) == 0 {
		r.calls = append(r.calls, fmt.Sprintf("ann - y=%g", y))
	}
	return nil
}

func (r *recorder) DrawBaseLine(base []layout.Placement, y float64) error {
	if r.fail != nil {
		return r.fail
	}
	for _, p := range base {
		r.calls = append(r.calls, fmt.Sprintf("base %s x=%g y=%g", p.Span.Base(), p.BaseX, y))
	}
	return nil
}

func TestPaintOrdersAnnotationBeforeBase(t *testing.T) {
	text, err := layout.FromMarkup("{漢;かん}\nA", layout.Options{
		Metrics: unitMetrics{},
		Style:   layout.Style{Size: 12},
	})
	if err != nil {
		t.Fatalf("FromMarkup error: %v", err)
	}
	text.Measure(layout.MaxWidth(-1))

	rec := &recorder{}
	if err := renderer.PaintText(rec, text); err != nil {
		t.Fatalf("Paint error: %v", err)
	}
	// 行高 = 5 + 10 = 15；注音基线 = 4，基础基线 = 5 + 8 = 13。
	want := []string{
		"ann かん x=0 y=4",
		"base 漢 x=0 y=13",
		"ann - y=19",
		"base A x=0 y=28",
	}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Fatalf("draw calls mismatch (-want +got):\n%s", diff)
	}
}

func TestPaintPropagatesErrors(t *testing.T) {
	text, err := layout.FromMarkup("A", layout.Options{Metrics: unitMetrics{}, Style: layout.Style{Size: 12}})
	if err != nil {
		t.Fatalf("FromMarkup error: %v", err)
	}
	boom := errors.New("boom")
	if err := renderer.PaintText(&recorder{fail: boom}, text); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if err := renderer.Paint(nil, text.Lines(), text.Metrics()); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}
