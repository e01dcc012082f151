package layout

// Overlap 记录同一行内两个相邻元素的视觉重叠（单位与度量后端一致）。
type Overlap struct {
	Line   int     `json:"line"`
	Left   string  `json:"left"`
	Right  string  `json:"right"`
	Amount float64 `json:"amount"`
}

// spreadAnnotations 自左向右扫描，把与前一个注音重叠的注音右移到恰好相接，
// 第一个注音不早于行首。
func spreadAnnotations(placements []Placement) {
	end := 0.0
	for i := range placements {
		p := &placements[i]
		if !p.Span.HasAnnotation() {
			continue
		}
		if p.AnnotationX < end {
			p.AnnotationX = end
		}
		end = p.AnnotationX + p.Span.AnnotationWidth()
	}
}

// DetectOverlaps 找出相邻注音之间的重叠。默认排版不处理这种重叠，
// 调试输出用它提示密集注音的问题。
func DetectOverlaps(lines []Line) []Overlap {
	var out []Overlap
	for i, line := range lines {
		var prev *PlacedAnnotation
		for _, a := range line.Annotations() {
			if prev != nil {
				if amount := prev.X + prev.Width - a.X; amount > 0 {
					out = append(out, Overlap{Line: i, Left: prev.Text, Right: a.Text, Amount: amount})
				}
			}
			prev = &a
		}
	}
	return out
}
