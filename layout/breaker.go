package layout

// Break 以贪心方式把 Span 填入行。
//
// 遇到换行 Span 时关闭当前行（即使为空）；有宽度上限且当前行非空、放入后超出上限时，
// 关闭当前行并在新行重试同一个 Span；否则放入。单个 Span 比上限还宽时独占一行并允许溢出。
// 末尾的非空行会被提交；若没有任何行，返回一个空行。
func Break(spans []*Span, c Constraint, opts BreakOptions) []Line {
	limit, bounded := c.breakLimit()

	var lines []Line
	var cur lineBuilder
	for i := 0; i < len(spans); {
		span := spans[i]
		if span.IsBreak() {
			lines = append(lines, cur.close(opts))
			cur = lineBuilder{}
			i++
			continue
		}
		if bounded && len(cur.placements) > 0 && cur.x+span.Width() > limit {
			lines = append(lines, cur.close(opts))
			cur = lineBuilder{}
			continue
		}
		cur.place(span)
		i++
	}
	if len(cur.placements) > 0 || len(lines) == 0 {
		lines = append(lines, cur.close(opts))
	}
	return lines
}

// lineBuilder 是处于填充状态的行，x 为已占用宽度。
type lineBuilder struct {
	placements []Placement
	x          float64
}

func (b *lineBuilder) place(span *Span) {
	p := Placement{
		Span:  span,
		X:     b.x,
		BaseX: b.x + (span.Width()-span.BaseWidth())/2,
	}
	if _, offset, ok := span.Annotation(p.BaseX); ok {
		p.AnnotationX = offset
	}
	b.placements = append(b.placements, p)
	b.x += span.Width()
}

func (b *lineBuilder) close(opts BreakOptions) Line {
	if opts.SpreadAnnotations {
		spreadAnnotations(b.placements)
	}
	return Line{Placements: b.placements, Width: b.x}
}
