package layout

import (
	"fmt"
	"math"
)

// ConstraintMode 对应宿主布局阶段的宽度约束模式。
type ConstraintMode int

const (
	Unbounded ConstraintMode = iota // 不限宽度：不自动折行
	AtMost                          // 最多 Width 宽，单行时收缩到内容宽度
	Exactly                         // 恰好 Width 宽
)

// Constraint 是一次测量的约束。MaxHeight 为 0 表示不限高度。
type Constraint struct {
	Mode      ConstraintMode `json:"mode"`
	Width     float64        `json:"width"`
	MaxHeight float64        `json:"maxHeight,omitempty"`
}

// MaxWidth 将可选宽度转换为约束：负数表示不限宽度。
func MaxWidth(w float64) Constraint {
	if w < 0 {
		return Constraint{Mode: Unbounded}
	}
	return Constraint{Mode: AtMost, Width: w}
}

// breakLimit 返回折行宽度。非负宽度都是有效上限，宽度 0 时每个 Span 独占一行。
func (c Constraint) breakLimit() (float64, bool) {
	switch c.Mode {
	case Exactly, AtMost:
		if c.Width >= 0 {
			return c.Width, true
		}
	}
	return -1, false
}

// Metrics 汇总行高相关的纵向度量。
type Metrics struct {
	AnnotationAscent     float64 `json:"annotationAscent"`
	AnnotationLineHeight float64 `json:"annotationLineHeight"`
	BaseAscent           float64 `json:"baseAscent"`
	BaseDescent          float64 `json:"baseDescent"`
	BaseLineHeight       float64 `json:"baseLineHeight"`
}

// MeasureMetrics 分别以基础样式与注音样式查询字体纵向度量。
func MeasureMetrics(gm GlyphMetrics, style Style) (Metrics, error) {
	if gm == nil {
		return Metrics{}, ErrNoMetrics
	}
	base, err := gm.Measure("", style)
	if err != nil {
		return Metrics{}, fmt.Errorf("查询基础字体度量失败: %w", err)
	}
	ann, err := gm.Measure("", style.Scaled(AnnotationScale))
	if err != nil {
		return Metrics{}, fmt.Errorf("查询注音字体度量失败: %w", err)
	}
	return Metrics{
		AnnotationAscent:     ann.Ascent,
		AnnotationLineHeight: ann.LineSpacing,
		BaseAscent:           base.Ascent,
		BaseDescent:          base.Descent,
		BaseLineHeight:       base.LineSpacing,
	}, nil
}

// LineHeight = 注音行高 + max(基础行高, 0)。
func (m Metrics) LineHeight() float64 {
	return m.AnnotationLineHeight + math.Max(m.BaseLineHeight, 0)
}

// AnnotationBaseline 返回第 i 行注音的基线位置（自块顶部向下）。
func (m Metrics) AnnotationBaseline(i int) float64 {
	return float64(i)*m.LineHeight() + m.AnnotationAscent
}

// BaseBaseline 返回第 i 行基础文本的基线位置。
func (m Metrics) BaseBaseline(i int) float64 {
	return float64(i)*m.LineHeight() + m.AnnotationLineHeight + m.BaseAscent
}

// MeasureSize 计算块尺寸：高度为行高乘行数并向上取整；
// 不限宽度或只有一行时宽度收缩为内容宽度，否则取约束宽度。
func MeasureSize(lines []Line, m Metrics, c Constraint) Size {
	n := len(lines)
	if n == 0 {
		n = 1
	}
	size := Size{
		Height: math.Ceil(m.LineHeight() * float64(n)),
		Lines:  n,
	}

	natural := 0.0
	for _, line := range lines {
		natural = math.Max(natural, line.Width)
	}
	_, bounded := c.breakLimit()
	switch {
	case c.Mode == Exactly:
		size.Width = c.Width
	case !bounded || len(lines) <= 1:
		size.Width = math.Ceil(natural)
	default:
		size.Width = c.Width
	}

	if c.MaxHeight > 0 && size.Height > c.MaxHeight {
		size.TooSmall = true
	}
	return size
}
