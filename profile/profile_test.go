package profile

import (
	"path/filepath"
	"slices"
	"testing"
)

func TestProfiler_Start_Disabled(t *testing.T) {
	for _, p := range []Profiler{
		{},
		{Mode: "no-such-mode", Path: t.TempDir()},
	} {
		s := p.Start()
		if s == nil {
			t.Fatalf("Start(%+v) returned nil", p)
		}

		if _, ok := s.(ignore); !ok {
			t.Errorf("Start(%+v) = %T, want a no-op", p, s)
		}

		s.Stop()
		s.Stop()
	}
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, want sorted", modes)
	}

	for _, m := range modes {
		if !Supported(m) {
			t.Errorf("Supported(%q) = false", m)
		}
	}

	if Supported("quiet") || Supported("") {
		t.Error("Supported() accepts a non-mode")
	}
}

func TestProfiler_Start_Mem(t *testing.T) {
	if !Supported("mem") {
		t.Skip("built without the pprof tag")
	}

	dir := t.TempDir()

	Profiler{Mode: "mem", Path: dir, Quiet: true}.Start().Stop()

	if matches, _ := filepath.Glob(filepath.Join(dir, "mem.pprof")); len(matches) != 1 {
		t.Errorf("mem profile not written to %s", dir)
	}
}
