package binding

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return data
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"user":{"name":"{田中;たなか}"},"items":[{"word":"{漢字;かんじ}"}],"n":3}`)
	got := Interpolate("${user.name}さん、${items[0].word}を${n}回", data)
	want := "{田中;たなか}さん、{漢字;かんじ}を3回"
	if got != want {
		t.Fatalf("Interpolate = %q, want %q", got, want)
	}
}

func TestInterpolateKeepsUnknownPlaceholders(t *testing.T) {
	data := decode(t, `{"a":1}`)
	if got := Interpolate("${b} ${a}", data); got != "${b} 1" {
		t.Fatalf("unexpected result %q", got)
	}
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("nil data must keep text, got %q", got)
	}
}

func TestMissing(t *testing.T) {
	data := decode(t, `{"a":[1,2]}`)
	got := Missing("${a[0]} ${a[5]} ${x} ${a[5]} ${a[x]}", data)
	want := []string{"a[5]", "x", "a[x]"}
	if len(got) != len(want) {
		t.Fatalf("Missing = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Missing = %v, want %v", got, want)
		}
	}
}
