package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderTextWithBinding(t *testing.T) {
	in := writeInput(t, "{${word};かんじ}")
	got, err := execute(t, "render", "--in", in, "--format", "txt", "--out", "-", "--data", `{"word":"漢字"}`)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	// 注音宽 3 格，居中于 4 格的基础文本：偏移 0.5 向下取整为第 0 列。
	if want := "かんじ\n漢字\n"; got != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", got, want)
	}
}

func TestMeasurePrintsSize(t *testing.T) {
	in := writeInput(t, "{漢字;かんじ}")
	got, err := execute(t, "measure", "--in", in, "--format", "txt")
	if err != nil {
		t.Fatalf("measure error: %v", err)
	}
	// 行高 = 0.5 + 1，高度 ceil(1.5) = 2。
	if want := "4 2 1\n"; got != want {
		t.Fatalf("measure = %q, want %q", got, want)
	}
}

func TestRenderWritesOutputAndDebug(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, "ab\n{cd;x}")
	out := filepath.Join(dir, "out", "result.txt")
	debug := filepath.Join(dir, "debug", "layout.json")
	if _, err := execute(t, "render", "--in", in, "--format", "txt", "--out", out, "--debug", debug); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "cd") {
		t.Fatalf("output misses base text: %q", data)
	}

	raw, err := os.ReadFile(debug)
	if err != nil {
		t.Fatalf("read debug: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("debug output is not JSON: %v", err)
	}
}

func TestWidthFlagWraps(t *testing.T) {
	in := writeInput(t, "abcdef")
	got, err := execute(t, "measure", "--in", in, "--format", "txt", "--width", "4")
	if err != nil {
		t.Fatalf("measure error: %v", err)
	}
	// 受限宽度下多行结果取约束宽度。
	if want := "4 3 2\n"; got != want {
		t.Fatalf("measure = %q, want %q", got, want)
	}
}

func TestLinesKeepsAnnotatedSpansWhole(t *testing.T) {
	in := writeInput(t, "ab{cd;x}e\nf")
	got, err := execute(t, "lines", "--in", in, "--format", "txt", "--width", "3")
	if err != nil {
		t.Fatalf("lines error: %v", err)
	}
	if want := "ab\n{cd;x}e\nf\n"; got != want {
		t.Fatalf("lines = %q, want %q", got, want)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	in := writeInput(t, "a")
	if _, err := execute(t, "render", "--in", in, "--format", "bmp", "--out", "-"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestMissingInput(t *testing.T) {
	if _, err := execute(t, "render", "--in", filepath.Join(t.TempDir(), "missing.txt"), "--format", "txt"); err == nil {
		t.Fatalf("expected error for missing input file")
	}
}
