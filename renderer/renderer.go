package renderer

import (
	"fmt"

	"github.com/ByLCY/furigana/layout"
)

// Renderer 负责把排好的行绘制出来。y 为基线位置（自块顶部向下）。
type Renderer interface {
	DrawAnnotationLine(annotations []layout.PlacedAnnotation, y float64) error
	DrawBaseLine(base []layout.Placement, y float64) error
}

// Paint 自上而下逐行绘制：先绘制注音行，再绘制其下方的基础行。
func Paint(r Renderer, lines []layout.Line, m layout.Metrics) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	for i, line := range lines {
		if err := r.DrawAnnotationLine(line.Annotations(), m.AnnotationBaseline(i)); err != nil {
			return fmt.Errorf("绘制第 %d 行注音失败: %w", i+1, err)
		}
		if err := r.DrawBaseLine(line.Base(), m.BaseBaseline(i)); err != nil {
			return fmt.Errorf("绘制第 %d 行失败: %w", i+1, err)
		}
	}
	return nil
}

// PaintText 绘制 Text 最近一次测量的结果。
func PaintText(r Renderer, text *layout.Text) error {
	return Paint(r, text.Lines(), text.Metrics())
}
