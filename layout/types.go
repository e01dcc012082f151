package layout

// 该文件定义排版结果与样式描述，供换行计算、渲染与调试 JSON 共用。

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/furigana/markup"
)

// Result 保存一次排版的全部输出，主要用于调试 JSON。
type Result struct {
	Constraint Constraint   `json:"constraint"`
	Metrics    Metrics      `json:"metrics"`
	Size       Size         `json:"size"`
	Lines      []Line       `json:"lines"`
	Runs       []markup.Run `json:"runs,omitempty"`
	Style      Style        `json:"style"`
	Debug      *ResultDebug `json:"debug,omitempty"`
}

// ResultDebug holds optional debug info displayed only when enabled by Options.
type ResultDebug struct {
	Overlaps []Overlap `json:"overlaps,omitempty"`
}

// FontResource 描述字体资源，src 可以是文件路径、embed:<name> 或 built-in:<name>。
type FontResource struct {
	Name  string `json:"name" yaml:"name"`
	Src   string `json:"src" yaml:"src"`
	Style string `json:"style,omitempty" yaml:"style"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Style 是不可变的文本样式。注音使用 Scaled 得到的副本测量，不修改原值。
type Style struct {
	Font  FontResource `json:"font"`
	Size  float64      `json:"size"`            // 字号（pt）
	Scale float64      `json:"scale,omitempty"` // 0 视为 1
}

// Scaled 返回按 factor 缩放后的样式副本。
func (s Style) Scaled(factor float64) Style {
	s.Scale = s.scale() * factor
	return s
}

// EffectiveSize 返回缩放后的实际字号。
func (s Style) EffectiveSize() float64 { return s.Size * s.scale() }

func (s Style) scale() float64 {
	if s.Scale == 0 {
		return 1
	}
	return s.Scale
}

// Measurement 是 GlyphMetrics 对一段文本的测量结果。
// Advances 与文本的 code point 一一对应；纵向度量与文本内容无关。
type Measurement struct {
	Advances    []float64
	Ascent      float64
	Descent     float64
	LineSpacing float64
}

// Width 返回各字符前进宽度之和。
func (m Measurement) Width() float64 {
	total := 0.0
	for _, v := range m.Advances {
		total += v
	}
	return total
}

// Span 是排版的原子单位：一个普通字符，或一个不可拆分的注音块。
// 测量完成后不再修改。
type Span struct {
	run             markup.Run
	advances        []float64
	baseWidth       float64
	annotationWidth float64
	width           float64
}

// Run returns the source run.
func (s *Span) Run() markup.Run { return s.run }

// Base 返回基础文本。
func (s *Span) Base() string { return s.run.Base }

// Advances 返回基础文本逐字符的前进宽度。
func (s *Span) Advances() []float64 { return s.advances }

// BaseWidth 返回基础文本宽度。
func (s *Span) BaseWidth() float64 { return s.baseWidth }

// AnnotationWidth 返回注音（半字号）宽度，无注音时为 0。
func (s *Span) AnnotationWidth() float64 { return s.annotationWidth }

// Width 返回参与换行计算的宽度。
func (s *Span) Width() float64 { return s.width }

// HasAnnotation reports whether the span carries annotation text.
// An annotated span with an empty reading ({X;}) is still atomic but has nothing to draw.
func (s *Span) HasAnnotation() bool {
	return s.run.Kind == markup.RunAnnotated && s.run.Annotation != ""
}

// IsBreak reports whether the span is a hard line break.
func (s *Span) IsBreak() bool { return s.run.IsBreak() }

// Annotation 返回注音文本及其在 x 处放置基础文本时的居中偏移。
// 偏移可能为负（注音比基础文本宽）。
func (s *Span) Annotation(x float64) (string, float64, bool) {
	if !s.HasAnnotation() {
		return "", 0, false
	}
	return s.run.Annotation, x + s.baseWidth/2 - s.annotationWidth/2, true
}

func (s *Span) String() string { return s.run.String() }

type spanJSON struct {
	Kind            markup.RunKind `json:"kind"`
	Base            string         `json:"base,omitempty"`
	Annotation      string         `json:"annotation,omitempty"`
	Advances        []float64      `json:"advances,omitempty"`
	Width           float64        `json:"width"`
	BaseWidth       float64        `json:"baseWidth"`
	AnnotationWidth float64        `json:"annotationWidth,omitempty"`
}

// MarshalJSON 输出测量数据，字段保持不可导出以维持不可变。
func (s *Span) MarshalJSON() ([]byte, error) {
	return json.Marshal(spanJSON{
		Kind:            s.run.Kind,
		Base:            s.run.Base,
		Annotation:      s.run.Annotation,
		Advances:        s.advances,
		Width:           s.width,
		BaseWidth:       s.baseWidth,
		AnnotationWidth: s.annotationWidth,
	})
}

// Placement 是 Span 在行内的位置。X 为占位盒起点，BaseX 为基础文本起点，
// AnnotationX 为注音起点（均相对行首）。基础行与注音行共用同一序列，下标天然一致。
type Placement struct {
	Span        *Span   `json:"span"`
	X           float64 `json:"x"`
	BaseX       float64 `json:"baseX"`
	AnnotationX float64 `json:"annotationX,omitempty"`
}

// PlacedAnnotation 是注音行中的一个元素。
type PlacedAnnotation struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Width float64 `json:"width"`
	// BaseX/BaseWidth 记录其基础文本范围，便于渲染器做对齐调试。
	BaseX     float64 `json:"baseX"`
	BaseWidth float64 `json:"baseWidth"`
}

// Line 表示换行后的一行，同时承载基础行与注音行。
type Line struct {
	Placements []Placement `json:"placements"`
	Width      float64     `json:"width"`
}

// Len returns the number of spans on the line.
func (l Line) Len() int { return len(l.Placements) }

// Base 返回基础行的元素序列。
func (l Line) Base() []Placement { return l.Placements }

// Annotations 返回注音行的元素，顺序与 Base 一致（仅包含带注音的 Span）。
func (l Line) Annotations() []PlacedAnnotation {
	var out []PlacedAnnotation
	for _, p := range l.Placements {
		if !p.Span.HasAnnotation() {
			continue
		}
		out = append(out, PlacedAnnotation{
			Text:      p.Span.run.Annotation,
			X:         p.AnnotationX,
			Width:     p.Span.annotationWidth,
			BaseX:     p.BaseX,
			BaseWidth: p.Span.baseWidth,
		})
	}
	return out
}

// Content 返回行内基础文本。
func (l Line) Content() string {
	var b strings.Builder
	for _, p := range l.Placements {
		b.WriteString(p.Span.Base())
	}
	return b.String()
}

// Texts 返回行内每个 Span 的基础文本，测试中常用。
func (l Line) Texts() []string {
	out := make([]string, 0, len(l.Placements))
	for _, p := range l.Placements {
		out = append(out, p.Span.Base())
	}
	return out
}

// Size 是测量后的块尺寸（已向上取整）。
type Size struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Lines    int     `json:"lines"`
	TooSmall bool    `json:"tooSmall,omitempty"` // 高度超过约束上限
}

func runeCount(s string) int { return utf8.RuneCountInString(s) }
