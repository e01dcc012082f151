package markup

import "fmt"

// RunKind 区分三种输入单元：普通字符、带注音的整体、强制换行。
type RunKind int

const (
	RunPlain RunKind = iota
	RunAnnotated
	RunBreak
)

func (k RunKind) String() string {
	switch k {
	case RunPlain:
		return "plain"
	case RunAnnotated:
		return "annotated"
	case RunBreak:
		return "break"
	default:
		return fmt.Sprintf("RunKind(%d)", int(k))
	}
}

// MarshalText 使调试 JSON 中输出可读的类型名。
func (k RunKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Run 是解析后的最小输入单元，解析完成后不再修改。
//
// RunPlain 的 Base 恰好是一个 code point；RunAnnotated 的 Base 与 Annotation
// 作为整体参与排版，永远不会被拆到两行；RunBreak 不携带文本。
type Run struct {
	Kind       RunKind `json:"kind"`
	Base       string  `json:"base,omitempty"`
	Annotation string  `json:"annotation,omitempty"`
}

// Plain 构造单字符 Run。
func Plain(r rune) Run { return Run{Kind: RunPlain, Base: string(r)} }

// Annotated 构造带注音的 Run。
func Annotated(base, annotation string) Run {
	return Run{Kind: RunAnnotated, Base: base, Annotation: annotation}
}

// Break 构造强制换行。
func Break() Run { return Run{Kind: RunBreak} }

// IsBreak reports whether the run forces a line boundary.
func (r Run) IsBreak() bool { return r.Kind == RunBreak }

// String 以输入语法回写 Run，便于日志与测试输出。
func (r Run) String() string {
	switch r.Kind {
	case RunAnnotated:
		return "{" + r.Base + ";" + r.Annotation + "}"
	case RunBreak:
		return "\n"
	default:
		return r.Base
	}
}
