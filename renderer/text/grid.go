// Package textrenderer lays out annotated text on a character-cell grid.
//
// Advances come from East Asian display widths (go-runewidth): a narrow rune is
// one cell, a wide rune two. The renderer writes each layout line as two text
// rows, annotation row first.
package textrenderer

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/furigana/layout"
	"github.com/ByLCY/furigana/renderer"
)

// Metrics 以单元格为单位实现 layout.GlyphMetrics。字号不参与计算，只有缩放比例生效，
// 因此注音宽度为半个单元格的倍数。
type Metrics struct {
	// EastAsian 为 true 时宽度不明确的字符按两格计算。
	EastAsian bool
}

var _ layout.GlyphMetrics = Metrics{}

func (m Metrics) condition() *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = m.EastAsian
	return cond
}

// Measure 实现 layout.GlyphMetrics。
func (m Metrics) Measure(text string, style layout.Style) (layout.Measurement, error) {
	scale := style.EffectiveSize() / style.Size
	cond := m.condition()
	out := layout.Measurement{
		Ascent:      scale,
		LineSpacing: scale,
	}
	for _, r := range text {
		out.Advances = append(out.Advances, float64(cond.RuneWidth(r))*scale)
	}
	return out, nil
}

// Renderer 把行写入字符网格。每次 DrawAnnotationLine 开始新的一对行。
type Renderer struct {
	cond *runewidth.Condition
	rows [][]cell
}

var _ renderer.Renderer = (*Renderer)(nil)

type cell struct {
	r    rune
	cont bool // 宽字符占据的第二格
}

// NewRenderer 创建网格渲染器，宽度规则需与测量所用的 Metrics 一致。
func NewRenderer(m Metrics) *Renderer {
	return &Renderer{cond: m.condition()}
}

// DrawAnnotationLine 实现 renderer.Renderer。y 不参与定位，行按调用顺序排列。
func (r *Renderer) DrawAnnotationLine(annotations []layout.PlacedAnnotation, _ float64) error {
	row := []cell{}
	for _, a := range annotations {
		row = r.write(row, column(a.X), a.Text)
	}
	r.rows = append(r.rows, row)
	return nil
}

// DrawBaseLine 实现 renderer.Renderer。
func (r *Renderer) DrawBaseLine(base []layout.Placement, _ float64) error {
	row := []cell{}
	for _, p := range base {
		row = r.write(row, column(p.BaseX), p.Span.Base())
	}
	r.rows = append(r.rows, row)
	return nil
}

// column 把注音的半格位置向下取整；负偏移钳到第 0 列。
func column(x float64) int {
	if x < 0 {
		return 0
	}
	return int(x)
}

// write 从 col 开始写入文本，覆盖已有内容，必要时用空格补齐。
func (r *Renderer) write(row []cell, col int, text string) []cell {
	for _, ch := range text {
		w := r.cond.RuneWidth(ch)
		if w == 0 {
			continue
		}
		for len(row) < col+w {
			row = append(row, cell{})
		}
		for i := col; i < col+w; i++ {
			clearPartner(row, i)
		}
		row[col] = cell{r: ch}
		if w == 2 {
			row[col+1] = cell{cont: true}
		}
		col += w
	}
	return row
}

// clearPartner 清除宽字符被部分覆盖后留下的另一半。
func clearPartner(row []cell, i int) {
	switch {
	case row[i].cont && i > 0:
		row[i-1] = cell{}
	case !row[i].cont && i+1 < len(row) && row[i+1].cont:
		row[i+1] = cell{}
	}
}

// String 返回网格内容；空注音行会被省略，行尾空白会被去除。
func (r *Renderer) String() string {
	var b strings.Builder
	for i, row := range r.rows {
		if i%2 == 0 && len(row) == 0 {
			continue
		}
		var line strings.Builder
		for _, c := range row {
			switch {
			case c.cont:
			case c.r == 0:
				line.WriteByte(' ')
			default:
				line.WriteRune(c.r)
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// Render 绘制 Text 最近一次测量的结果并返回网格文本。
func Render(text *layout.Text, m Metrics) (string, error) {
	r := NewRenderer(m)
	if err := renderer.PaintText(r, text); err != nil {
		return "", err
	}
	return r.String(), nil
}
