package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestHistory_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	for _, e := range []HistoryEntry{
		{`(p "a")`, modeEval},
		{"vars", modeCtrl},
		{`(p "b")`, modeEval},
		{`(p "b")`, modeEval},
		{`(p "a")`, modeEval},
	} {
		if err := h.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatalf("WriteWithMode(%q) error = %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"vars", modeCtrl},
		{`(p "b")`, modeEval},
		{`(p "a")`, modeEval},
	}

	check := func(t *testing.T, h *History) {
		t.Helper()

		if h.Len() != len(want) {
			t.Fatalf("Len() = %d, want %d", h.Len(), len(want))
		}

		for i, w := range want {
			got, err := h.GetEntry(i)
			if err != nil {
				t.Fatalf("GetEntry(%d) error = %v", i, err)
			}

			if got != w {
				t.Errorf("GetEntry(%d) = %+v, want %+v", i, got, w)
			}
		}
	}

	check(t, h)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(raw); got != "C:vars\nE:(p \"b\")\nE:(p \"a\")\n" {
		t.Errorf("history file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	check(t, reloaded)
}

func TestHistory_Edges(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing", "nested"))
	if err := h.Load(); err != nil {
		t.Errorf("Load(missing) error = %v, want nil", err)
	}

	mem := NewHistory("")
	if err := mem.WriteWithMode("  ", modeEval); err != nil || mem.Len() != 0 {
		t.Errorf("WriteWithMode(blank) = %v, Len() = %d", err, mem.Len())
	}

	if err := mem.WriteWithMode("x", modeEval); err != nil || mem.Len() != 1 {
		t.Errorf("WriteWithMode(x) = %v, Len() = %d", err, mem.Len())
	}

	if _, err := mem.GetEntry(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GetEntry(1) error = %v, want %v", err, ErrOutOfBounds)
	}

	if got := decodeEntry("legacy"); got != (HistoryEntry{"legacy", modeEval}) {
		t.Errorf("decodeEntry(legacy) = %+v", got)
	}
}
