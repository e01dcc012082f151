package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/furigana/markup"
)

// NewSpan 测量一个 Run。普通字符只有一个宽度；注音块保留基础文本逐字符宽度，
// 占位宽度为其和，注音以 AnnotationScale 缩放后的样式单独测量。
func NewSpan(run markup.Run, gm GlyphMetrics, style Style, opts SpanOptions) (*Span, error) {
	span := &Span{run: run}
	if run.IsBreak() {
		return span, nil
	}

	if run.Base != "" {
		m, err := gm.Measure(run.Base, style)
		if err != nil {
			return nil, fmt.Errorf("测量文本 %q 失败: %w", run.Base, err)
		}
		if want := runeCount(run.Base); len(m.Advances) != want {
			return nil, fmt.Errorf("%w: %q 期望 %d 个，实际 %d 个", ErrMetricsMismatch, run.Base, want, len(m.Advances))
		}
		span.advances = m.Advances
		span.baseWidth = m.Width()
	}
	span.width = span.baseWidth

	if run.Kind != markup.RunAnnotated || run.Annotation == "" {
		return span, nil
	}
	m, err := gm.Measure(run.Annotation, style.Scaled(AnnotationScale))
	if err != nil {
		return nil, fmt.Errorf("测量注音 %q 失败: %w", run.Annotation, err)
	}
	span.annotationWidth = m.Width()
	if opts.ReserveAnnotationWidth {
		span.width = math.Max(span.baseWidth, span.annotationWidth)
	}
	return span, nil
}

// NewSpans 按文档顺序测量全部 Run。
func NewSpans(runs []markup.Run, gm GlyphMetrics, style Style, opts SpanOptions) ([]*Span, error) {
	if gm == nil {
		return nil, ErrNoMetrics
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}
	spans := make([]*Span, 0, len(runs))
	for _, run := range runs {
		span, err := NewSpan(run, gm, style, opts)
		if err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}
	return spans, nil
}
