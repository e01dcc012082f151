package layout

import (
	"errors"
	"fmt"
	"math"
)

// AnnotationScale 是注音字号与基础字号之比。
const AnnotationScale = 0.5

var (
	// ErrNoMetrics 表示缺少字形度量后端。
	ErrNoMetrics = errors.New("layout: 缺少字形度量后端 GlyphMetrics")
	// ErrInvalidStyle 表示样式无法用于排版（字号非正或非有限值）。
	ErrInvalidStyle = errors.New("layout: 样式无效")
	// ErrMetricsMismatch 表示度量后端返回的宽度数量与字符数量不一致。
	ErrMetricsMismatch = errors.New("layout: 字符宽度数量与字符数不一致")
)

// GlyphMetrics 负责测量文本：逐 code point 的前进宽度以及字体纵向度量。
// 实现不得修改 style；注音测量通过 style.Scaled 传入缩小后的副本。
type GlyphMetrics interface {
	Measure(text string, style Style) (Measurement, error)
}

// Options 配置排版阶段所需的依赖与可选行为。
type Options struct {
	Metrics GlyphMetrics
	Style   Style
	Spans   SpanOptions
	Break   BreakOptions
	Debug   DebugOptions
}

// SpanOptions 控制 Span 测量。
type SpanOptions struct {
	// ReserveAnnotationWidth 使注音比基础文本宽时占位宽度取两者较大值，
	// 基础文本在占位盒内居中。默认关闭：注音可以伸出到相邻 Span 上方。
	ReserveAnnotationWidth bool
}

// BreakOptions 控制换行。
type BreakOptions struct {
	// SpreadAnnotations 在行关闭时把与前一个注音重叠的注音向右推开，
	// 并保证注音不越过行首。默认关闭。
	SpreadAnnotations bool
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Runs     bool // 在调试 JSON 中输出解析得到的 Run 序列
	Overlaps bool // 在调试 JSON 中输出重叠的注音
}

// Validate 在排版开始前检查样式。
func (s Style) Validate() error {
	size := s.EffectiveSize()
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return fmt.Errorf("%w: 字号 %g（缩放 %g）", ErrInvalidStyle, s.Size, s.scale())
	}
	return nil
}

func (o Options) validate() error {
	if o.Metrics == nil {
		return ErrNoMetrics
	}
	return o.Style.Validate()
}
