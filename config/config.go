// Package config 读取 YAML 样式配置，并转换为排版与渲染所需的参数。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ByLCY/furigana/layout"
)

// File 是配置文件的原始结构，长度保留作者书写的单位。
type File struct {
	Font                   layout.FontResource `yaml:"font"`
	Size                   string              `yaml:"size"`
	Width                  string              `yaml:"width"`
	Color                  string              `yaml:"color"`
	AnnotationColor        string              `yaml:"annotation-color"`
	Padding                string              `yaml:"padding"`
	ReserveAnnotationWidth bool                `yaml:"reserve-annotation-width"`
	SpreadAnnotations      bool                `yaml:"spread-annotations"`
}

// Config 是解析后的配置：字号为 pt，宽度与边距为 mm；Width < 0 表示不限宽度。
type Config struct {
	Style           layout.Style
	Width           float64
	Padding         float64
	Color           layout.Color
	AnnotationColor layout.Color
	Spans           layout.SpanOptions
	Break           layout.BreakOptions
}

// Default 返回默认配置：内置字体 12pt、不限宽度、4mm 边距、深灰文字。
func Default() Config {
	gray := layout.Color{R: 30, G: 30, B: 30}
	return Config{
		Style: layout.Style{
			Font: layout.FontResource{Name: "Body", Src: "embed:goregular"},
			Size: 12,
		},
		Width:           -1,
		Padding:         4,
		Color:           gray,
		AnnotationColor: gray,
	}
}

// Load 读取并解析配置文件。
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("配置文件 %s: %w", path, err)
	}
	return cfg, nil
}

// Parse 在默认配置之上应用 YAML 内容，未知字段视为错误。
func Parse(data []byte) (Config, error) {
	var f File
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.DisallowUnknownField()); err != nil {
		return Config{}, fmt.Errorf("解析 YAML 失败: %w", err)
	}
	return f.Apply(Default())
}

// Apply 把文件中出现的字段覆盖到 cfg 上。
func (f File) Apply(cfg Config) (Config, error) {
	if f.Font.Src != "" {
		cfg.Style.Font.Src = f.Font.Src
	}
	if f.Font.Name != "" {
		cfg.Style.Font.Name = f.Font.Name
	}
	if f.Font.Style != "" {
		cfg.Style.Font.Style = f.Font.Style
	}
	if f.Size != "" {
		size, err := ParseFontSize(f.Size)
		if err != nil {
			return Config{}, err
		}
		cfg.Style.Size = size
	}
	if f.Width != "" {
		width, err := ParseWidth(f.Width)
		if err != nil {
			return Config{}, err
		}
		cfg.Width = width
	}
	if f.Padding != "" {
		l, err := layout.ParseLength(f.Padding)
		if err != nil {
			return Config{}, fmt.Errorf("padding: %w", err)
		}
		cfg.Padding = l.ToMM()
	}
	if f.Color != "" {
		c, err := ParseColor(f.Color)
		if err != nil {
			return Config{}, err
		}
		cfg.Color = c
		// 未单独指定时注音与正文同色
		if f.AnnotationColor == "" {
			cfg.AnnotationColor = c
		}
	}
	if f.AnnotationColor != "" {
		c, err := ParseColor(f.AnnotationColor)
		if err != nil {
			return Config{}, err
		}
		cfg.AnnotationColor = c
	}
	cfg.Spans.ReserveAnnotationWidth = cfg.Spans.ReserveAnnotationWidth || f.ReserveAnnotationWidth
	cfg.Break.SpreadAnnotations = cfg.Break.SpreadAnnotations || f.SpreadAnnotations
	if err := cfg.Style.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Constraint 返回配置宽度对应的排版约束。
func (c Config) Constraint() layout.Constraint { return layout.MaxWidth(c.Width) }

// Options 返回排版参数。
func (c Config) Options(gm layout.GlyphMetrics) layout.Options {
	return layout.Options{
		Metrics: gm,
		Style:   c.Style,
		Spans:   c.Spans,
		Break:   c.Break,
	}
}

// ParseFontSize 解析字号，无单位时按 pt 处理。
func ParseFontSize(value string) (float64, error) {
	l, err := layout.ParseLength(value)
	if err != nil {
		return 0, fmt.Errorf("size: %w", err)
	}
	if l.Unit == layout.UnitNone {
		return l.Value, nil
	}
	return l.ToPT(), nil
}

// ParseWidth 解析宽度，无单位时按 mm 处理；负数、0 或 "none" 表示不限宽度。
// 排版层把 0 当作有效上限，配置文件与命令行中的 0 则表示未设置。
func ParseWidth(value string) (float64, error) {
	if strings.EqualFold(strings.TrimSpace(value), "none") {
		return -1, nil
	}
	l, err := layout.ParseLength(value)
	if err != nil {
		return 0, fmt.Errorf("width: %w", err)
	}
	if l.Value <= 0 {
		return -1, nil
	}
	return l.ToMM(), nil
}

// ParseColor 解析 #rgb / #rrggbb / #rrggbbaa（忽略 alpha）。
func ParseColor(value string) (layout.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
	}
	if len(hex) != 6 && len(hex) != 8 {
		return layout.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var rgb [3]int
	for i := range rgb {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return layout.Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		rgb[i] = int(v)
	}
	return layout.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}
