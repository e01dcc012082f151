package markup

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// 词法规则按顺序尝试，先匹配者优先：普通文本优先于注音块，
// 因此花括号之外的 ';' 属于普通文本；无法组成任何记号的 '{' '}' 落入 Stray 并被丢弃。
var (
	markupLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Plain", Pattern: `[^{}\n]+`},
		{Name: "Annotated", Pattern: `\{[^{}\n;]*;[^{}\n;]*\}`},
		{Name: "Newline", Pattern: `\n`},
		{Name: "Stray", Pattern: `[{}]`},
	})

	tokenNames     = invertSymbols(markupLexer.Symbols())
	strayTokenType = mustTokenType("Stray")

	documentParser = participle.MustBuild[Document](
		participle.Lexer(markupLexer),
		participle.Elide("Stray"),
	)
)

// Document is the root AST node of a markup string.
type Document struct {
	Tokens []*Token `parser:"@@*"`
}

// Token is one matched grammar alternative.
type Token struct {
	Pos       lexer.Position `parser:"" json:"-"`
	Plain     string         `parser:"  @Plain"`
	Annotated Annotation     `parser:"| @Annotated"`
	Break     bool           `parser:"| @Newline"`
}

// Annotation 在捕获时拆分 {base;annotation}。
type Annotation struct {
	Base       string
	Annotation string
	matched    bool
}

// Capture implements participle.Capture.
func (a *Annotation) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("注音块缺少内容")
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(values[0], "{"), "}")
	base, annotation, ok := strings.Cut(raw, ";")
	if !ok {
		return fmt.Errorf("注音块 %q 缺少分隔符 ';'", values[0])
	}
	*a = Annotation{Base: base, Annotation: annotation, matched: true}
	return nil
}

// Runs 将 AST 展开为 Run 序列：普通文本逐 code point 展开，注音块保持整体。
// 注音为空的块（{X;}）同样是整体，只是没有注音可画。
func (d *Document) Runs() []Run {
	if d == nil {
		return nil
	}
	runs := make([]Run, 0, len(d.Tokens))
	for _, tok := range d.Tokens {
		switch {
		case tok.Break:
			runs = append(runs, Break())
		case tok.Annotated.matched:
			runs = append(runs, Annotated(tok.Annotated.Base, tok.Annotated.Annotation))
		default:
			runs = appendPlain(runs, tok.Plain)
		}
	}
	return runs
}

func appendPlain(runs []Run, text string) []Run {
	for _, r := range text {
		runs = append(runs, Plain(r))
	}
	return runs
}

// Parse 解析标记文本。语法是全覆盖的：任何输入都能得到结果，
// 不成对的花括号被静默丢弃。
func Parse(input string) []Run {
	doc, err := ParseDocument(input)
	if err != nil {
		panic(fmt.Sprintf("markup: grammar rejected input %q: %v", input, err))
	}
	return doc.Runs()
}

// ParseReader 从 io.Reader 读取并解析标记文本，仅在读取失败时返回错误。
func ParseReader(r io.Reader) ([]Run, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取标记文本失败: %w", err)
	}
	return Parse(string(data)), nil
}

// ParseDocument 返回原始 AST，供需要记号位置的调用方使用。
func ParseDocument(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// Lexeme captures a single lexical token, including dropped ones.
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Pos   lexer.Position `json:"-"`
}

// Dropped reports whether the token was discarded by the parser.
func (l Lexeme) Dropped() bool { return l.Type == tokenNames[strayTokenType] }

// Tokens 返回词法层面的完整记号流（包含被丢弃的 Stray），用于调试输出。
func Tokens(input string) ([]Lexeme, error) {
	lex, err := markupLexer.Lex("", strings.NewReader(input))
	if err != nil {
		return nil, err
	}
	toks, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	out := make([]Lexeme, 0, len(toks))
	for _, tok := range toks {
		if tok.EOF() {
			continue
		}
		out = append(out, Lexeme{Type: tokenNames[tok.Type], Value: tok.Value, Pos: tok.Pos})
	}
	return out, nil
}

// Dropped 返回输入中被丢弃的字符记号。
func Dropped(input string) []Lexeme {
	toks, err := Tokens(input)
	if err != nil {
		return nil
	}
	var out []Lexeme
	for _, tok := range toks {
		if tok.Dropped() {
			out = append(out, tok)
		}
	}
	return out
}

func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		out[tt] = name
	}
	return out
}

func mustTokenType(name string) lexer.TokenType {
	tt, ok := markupLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
