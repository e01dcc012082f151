package layout

import (
	"github.com/ByLCY/furigana/markup"
)

// Text 是对外的排版查询入口：持有已测量的 Span，按需根据宽度约束重新折行。
//
// 文本或样式变化时重建全部 Span；每次 Measure 都完整重建行，没有增量排版。
// Text 不是并发安全的。
type Text struct {
	opts       Options
	runs       []markup.Run
	spans      []*Span
	metrics    Metrics
	lines      []Line
	size       Size
	constraint Constraint
	measured   bool
}

// New 测量 runs 并返回可查询的 Text。样式与度量后端的问题在此处以错误返回。
func New(runs []markup.Run, opts Options) (*Text, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	t := &Text{opts: opts}
	if err := t.rebuild(runs); err != nil {
		return nil, err
	}
	return t, nil
}

// FromMarkup 解析标记文本并构建 Text。
func FromMarkup(input string, opts Options) (*Text, error) {
	return New(markup.Parse(input), opts)
}

// SetRuns 替换文本内容并重建 Span。
func (t *Text) SetRuns(runs []markup.Run) error {
	return t.rebuild(runs)
}

// SetMarkup 解析并替换文本内容。
func (t *Text) SetMarkup(input string) error {
	return t.rebuild(markup.Parse(input))
}

// SetStyle 替换样式并重建 Span。
func (t *Text) SetStyle(style Style) error {
	if err := style.Validate(); err != nil {
		return err
	}
	prev := t.opts.Style
	t.opts.Style = style
	if err := t.rebuild(t.runs); err != nil {
		t.opts.Style = prev
		return err
	}
	return nil
}

func (t *Text) rebuild(runs []markup.Run) error {
	spans, err := NewSpans(runs, t.opts.Metrics, t.opts.Style, t.opts.Spans)
	if err != nil {
		return err
	}
	metrics, err := MeasureMetrics(t.opts.Metrics, t.opts.Style)
	if err != nil {
		return err
	}
	t.runs = runs
	t.spans = spans
	t.metrics = metrics
	t.lines = nil
	t.measured = false
	return nil
}

// Measure 按约束折行并返回块尺寸。
func (t *Text) Measure(c Constraint) Size {
	t.lines = Break(t.spans, c, t.opts.Break)
	t.size = MeasureSize(t.lines, t.metrics, c)
	t.constraint = c
	t.measured = true
	return t.size
}

// Lines 返回最近一次 Measure 的行；尚未测量时按不限宽度排版。
func (t *Text) Lines() []Line {
	if !t.measured {
		t.Measure(Constraint{Mode: Unbounded})
	}
	return t.lines
}

// Size 返回最近一次 Measure 的尺寸。
func (t *Text) Size() Size {
	if !t.measured {
		t.Measure(Constraint{Mode: Unbounded})
	}
	return t.size
}

// Spans 返回已测量的 Span 序列。
func (t *Text) Spans() []*Span { return t.spans }

// Metrics 返回纵向度量。
func (t *Text) Metrics() Metrics { return t.metrics }

// Style 返回当前样式。
func (t *Text) Style() Style { return t.opts.Style }

// Result 汇总最近一次排版，用于调试输出。
func (t *Text) Result() *Result {
	lines := t.Lines()
	res := &Result{
		Constraint: t.constraint,
		Metrics:    t.metrics,
		Size:       t.size,
		Lines:      lines,
		Style:      t.opts.Style,
	}
	if t.opts.Debug.Runs {
		res.Runs = t.runs
	}
	if t.opts.Debug.Overlaps {
		if overlaps := DetectOverlaps(lines); len(overlaps) > 0 {
			res.Debug = &ResultDebug{Overlaps: overlaps}
		}
	}
	return res
}
