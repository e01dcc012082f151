package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/furigana/binding"
	"github.com/ByLCY/furigana/config"
	"github.com/ByLCY/furigana/layout"
	"github.com/ByLCY/furigana/markup"
	canvasrenderer "github.com/ByLCY/furigana/renderer/canvas"
	textrenderer "github.com/ByLCY/furigana/renderer/text"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("furigana: %v", err)
	}
}

type options struct {
	input      string
	output     string
	format     string
	configPath string
	width      string
	dataJSON   string
	debugPath  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "furigana",
		Short:         "带注音文本的排版与渲染",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.input, "in", "examples/demo.txt", "标记文本路径（- 表示标准输入）")
	flags.StringVar(&opts.configPath, "config", "", "YAML 样式配置路径")
	flags.StringVar(&opts.width, "width", "", "最大行宽，例如 80mm；none 表示不限宽度")
	flags.StringVar(&opts.format, "format", "pdf", "输出格式：pdf | svg | txt")
	flags.StringVar(&opts.dataJSON, "data", "", "绑定到 ${...} 占位符的 JSON 数据")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "输出调试日志")

	render := &cobra.Command{
		Use:   "render",
		Short: "排版并输出 PDF/SVG/文本",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := run(opts, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return err
			}
			if opts.output != "" && opts.output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "已生成 %s\n", opts.output)
			}
			return nil
		},
	}
	render.Flags().StringVar(&opts.output, "out", "output/demo.pdf", "输出路径（- 表示标准输出）")
	render.Flags().StringVar(&opts.debugPath, "debug", "", "排版调试 JSON 输出路径")

	measure := &cobra.Command{
		Use:   "measure",
		Short: "输出排版后的宽度、高度与行数",
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, err := build(opts, cmd.InOrStdin())
			if err != nil {
				return err
			}
			size := j.text.Size()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%g %g %d\n", size.Width, size.Height, size.Lines)
			return err
		},
	}

	lines := &cobra.Command{
		Use:   "lines",
		Short: "按行输出折行结果（标记语法）",
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, err := build(opts, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return writeLines(cmd.OutOrStdout(), j.text.Lines())
		},
	}

	root.AddCommand(render, measure, lines)
	return root
}

// run 串联解析、排版与渲染。
func run(opts options, stdin io.Reader, stdout io.Writer) error {
	j, err := build(opts, stdin)
	if err != nil {
		return err
	}

	if opts.debugPath != "" {
		if err := writeDebug(j.text.Result(), opts.debugPath); err != nil {
			return err
		}
	}

	out, err := j.render(opts)
	if err != nil {
		return err
	}
	if opts.output == "" || opts.output == "-" {
		_, err = stdout.Write(out)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

// job 保存一次命令执行的配置与排版结果。
type job struct {
	cfg     config.Config
	metrics layout.GlyphMetrics
	text    *layout.Text
}

// build 读取配置与标记文本，完成测量与折行。
func build(opts options, stdin io.Reader) (*job, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.width != "" {
		width, err := config.ParseWidth(opts.width)
		if err != nil {
			return nil, err
		}
		cfg.Width = width
	}

	source, err := readInput(opts.input, stdin)
	if err != nil {
		return nil, err
	}
	if opts.dataJSON != "" {
		var data any
		if err := json.Unmarshal([]byte(opts.dataJSON), &data); err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
		for _, path := range binding.Missing(source, data) {
			slog.Warn("占位符没有对应的数据", "path", path)
		}
		source = binding.Interpolate(source, data)
	}
	for _, tok := range markup.Dropped(source) {
		slog.Debug("忽略不成对的括号", "value", tok.Value, "line", tok.Pos.Line, "column", tok.Pos.Column)
	}

	var metrics layout.GlyphMetrics
	switch opts.format {
	case "txt":
		metrics = textrenderer.Metrics{}
	case string(canvasrenderer.FormatPDF), string(canvasrenderer.FormatSVG):
		metrics = canvasrenderer.NewMetricsWithOptions(canvasrenderer.Options{
			BaseDir: filepath.Dir(opts.input),
			Logger:  slog.Default(),
		})
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", opts.format)
	}

	layoutOpts := cfg.Options(metrics)
	layoutOpts.Debug = layout.DebugOptions{Runs: opts.debugPath != "", Overlaps: opts.debugPath != ""}
	text, err := layout.FromMarkup(source, layoutOpts)
	if err != nil {
		return nil, fmt.Errorf("排版计算失败: %w", err)
	}
	size := text.Measure(cfg.Constraint())
	slog.Debug("排版完成", "lines", size.Lines, "width", size.Width, "height", size.Height, "spans", len(text.Spans()))
	for i, ln := range text.Lines() {
		slog.Debug("行", "index", i, "text", ln.Content(), "width", ln.Width)
	}
	if overlaps := layout.DetectOverlaps(text.Lines()); len(overlaps) > 0 {
		slog.Debug("存在互相重叠的注音", "count", len(overlaps))
	}

	return &job{cfg: cfg, metrics: metrics, text: text}, nil
}

func (j *job) render(opts options) ([]byte, error) {
	switch m := j.metrics.(type) {
	case textrenderer.Metrics:
		out, err := textrenderer.Render(j.text, m)
		if err != nil {
			return nil, fmt.Errorf("渲染文本失败: %w", err)
		}
		return []byte(out), nil
	case *canvasrenderer.Metrics:
		out, err := m.Render(j.text, canvasrenderer.DocumentOptions{
			Format:  canvasrenderer.Format(opts.format),
			Padding: j.cfg.Padding,
			Colors:  canvasrenderer.Colors{Text: j.cfg.Color, Annotation: j.cfg.AnnotationColor},
			Title:   filepath.Base(opts.input),
		})
		if err != nil {
			return nil, fmt.Errorf("渲染 %s 失败: %w", opts.format, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", opts.format)
	}
}

// writeLines 每行输出一个排版行，Span 按标记语法还原。
func writeLines(w io.Writer, lines []layout.Line) error {
	for _, ln := range lines {
		var b strings.Builder
		for _, p := range ln.Placements {
			b.WriteString(p.Span.String())
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("无法打开标记文件 %s: %w", path, err)
	}
	return string(data), nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
