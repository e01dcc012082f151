package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, name := range []string{"goregular", "embed:gomono", "GoBold.ttf"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%q) returned empty font", name)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("embed:Inter-Regular.ttf"); err == nil {
		t.Fatalf("expected error for unknown font")
	}
}
