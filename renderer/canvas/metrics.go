package canvasrenderer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/patrickmn/go-cache"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/furigana/fonts"
	"github.com/ByLCY/furigana/layout"
)

// Metrics 基于 github.com/tdewolff/canvas 的字体度量实现 layout.GlyphMetrics。
// 字号以 pt 传入，返回的宽度与纵向度量以 mm 为单位。
type Metrics struct {
	baseDir   string
	fontBlobs map[string][]byte // by unique name
	logger    *slog.Logger

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily

	advances *cache.Cache // font|size|rune -> advance (mm)
}

var _ layout.GlyphMetrics = (*Metrics)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas metrics.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // built-in fonts accessible via built-in:<name>
	Logger  *slog.Logger
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewMetrics creates canvas metrics rooted at baseDir for resolving font paths.
func NewMetrics(baseDir string) *Metrics { return NewMetricsWithOptions(Options{BaseDir: baseDir}) }

// NewMetricsWithOptions creates metrics with injected font resources.
func NewMetricsWithOptions(opts Options) *Metrics {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Metrics{
		baseDir:      opts.BaseDir,
		fontBlobs:    map[string][]byte{},
		logger:       logger,
		fontFamilies: map[string]*fontFamilyEntry{},
		advances:     cache.New(cache.NoExpiration, 0),
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			m.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				// 真正使用该字体时会报告找不到资源
				logger.Warn("读取字体文件失败", "name", name, "path", res.Path, "error", err)
				continue
			}
			m.fontBlobs[name] = data
		}
	}
	return m
}

// Measure 实现 layout.GlyphMetrics：逐 code point 查询前进宽度，不做字距调整。
func (m *Metrics) Measure(text string, style layout.Style) (layout.Measurement, error) {
	size := style.EffectiveSize()
	face, err := m.fontFace(style.Font, size, layout.Color{})
	if err != nil {
		return layout.Measurement{}, err
	}
	fm := face.Metrics()
	out := layout.Measurement{
		Advances:    make([]float64, 0, utf8.RuneCountInString(text)),
		Ascent:      fm.Ascent,
		Descent:     fm.Descent,
		LineSpacing: fm.LineHeight,
	}
	prefix := fmt.Sprintf("%s|%g|", fontCacheKey(style.Font), size)
	for _, r := range text {
		out.Advances = append(out.Advances, m.advance(face, prefix, r))
	}
	return out, nil
}

func (m *Metrics) advance(face *canvas.FontFace, prefix string, r rune) float64 {
	key := prefix + string(r)
	if v, ok := m.advances.Get(key); ok {
		return v.(float64)
	}
	w := face.TextWidth(string(r))
	m.advances.Set(key, w, cache.NoExpiration)
	return w
}

// CachedAdvances 返回缓存中的字符宽度条目数。
func (m *Metrics) CachedAdvances() int { return m.advances.ItemCount() }

func (m *Metrics) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := m.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (m *Metrics) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	m.fontMu.Lock()
	defer m.fontMu.Unlock()

	if entry, ok := m.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := m.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := m.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		m.logger.Warn("字体加载失败，改用内置字体", "font", font.Name, "src", font.Src, "fallback", fonts.Default, "error", err)
		m.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	m.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (m *Metrics) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	data, err := m.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (m *Metrics) loadFontBytes(font layout.FontResource) ([]byte, error) {
	src := font.Src
	if src == "" {
		return fonts.Load(fonts.Default)
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := m.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if m.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.baseDir, path)
	}
	return os.ReadFile(path)
}

func (m *Metrics) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if m.fallbackFamily != nil {
		return m.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("furigana-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	m.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

// parseFontStyle 只区分字重与斜体；混排样式不在支持范围内。
func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case s == "":
		return result
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}
