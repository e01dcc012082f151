package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/furigana/layout"
	"github.com/ByLCY/furigana/renderer"
)

// Format 是文档输出格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// Renderer 把排好的行绘制到 canvas.Context 上，坐标以 mm 为单位，原点在块的左上角。
type Renderer struct {
	ctx        *canvas.Context
	base       *canvas.FontFace
	annotation *canvas.FontFace
	x, y       float64
}

var _ renderer.Renderer = (*Renderer)(nil)

// Colors 指定基础文本与注音的颜色。
type Colors struct {
	Text       layout.Color
	Annotation layout.Color
}

// DefaultColors 与排版调试输出使用的深灰一致。
var DefaultColors = Colors{
	Text:       layout.Color{R: 30, G: 30, B: 30},
	Annotation: layout.Color{R: 30, G: 30, B: 30},
}

// NewRenderer 为 style 创建基础与注音字体面，在 (x, y) 处绘制文本块。
func (m *Metrics) NewRenderer(ctx *canvas.Context, style layout.Style, colors Colors, x, y float64) (*Renderer, error) {
	if ctx == nil {
		return nil, fmt.Errorf("canvas context 不能为空")
	}
	base, err := m.fontFace(style.Font, style.EffectiveSize(), colors.Text)
	if err != nil {
		return nil, err
	}
	annotation, err := m.fontFace(style.Font, style.Scaled(layout.AnnotationScale).EffectiveSize(), colors.Annotation)
	if err != nil {
		return nil, err
	}
	return &Renderer{ctx: ctx, base: base, annotation: annotation, x: x, y: y}, nil
}

// DrawAnnotationLine 实现 renderer.Renderer。
func (r *Renderer) DrawAnnotationLine(annotations []layout.PlacedAnnotation, y float64) error {
	for _, a := range annotations {
		if a.Text == "" {
			continue
		}
		r.ctx.DrawText(r.x+a.X, r.y+y, canvas.NewTextLine(r.annotation, a.Text, canvas.Left))
	}
	return nil
}

// DrawBaseLine 实现 renderer.Renderer。
func (r *Renderer) DrawBaseLine(base []layout.Placement, y float64) error {
	for _, p := range base {
		content := p.Span.Base()
		if content == "" {
			continue
		}
		r.ctx.DrawText(r.x+p.BaseX, r.y+y, canvas.NewTextLine(r.base, content, canvas.Left))
	}
	return nil
}

// DocumentOptions 配置单页文档输出。
type DocumentOptions struct {
	Format  Format
	Padding float64 // mm
	Colors  Colors
	Title   string
}

// Render 将 Text 最近一次测量的结果输出为单页 PDF 或 SVG，页面尺寸为块尺寸加边距。
func (m *Metrics) Render(text *layout.Text, opts DocumentOptions) ([]byte, error) {
	if text == nil {
		return nil, fmt.Errorf("渲染内容为空")
	}
	lines := text.Lines()
	size := text.Size()
	width := math.Max(size.Width, 1) + 2*opts.Padding
	height := math.Max(size.Height, 1) + 2*opts.Padding

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点

	r, err := m.NewRenderer(ctx, text.Style(), opts.Colors, opts.Padding, opts.Padding)
	if err != nil {
		return nil, err
	}
	if err := renderer.Paint(r, lines, text.Metrics()); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch opts.Format {
	case FormatSVG:
		writer := svg.New(&buf, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case FormatPDF, "":
		writer := pdf.New(&buf, width, height, nil)
		writer.SetInfo(opts.Title, "", "", "", "furigana")
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", opts.Format)
	}
	return buf.Bytes(), nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
