package pkg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("read VERSION: %v", err)
	}

	if want := strings.TrimSpace(string(buf)); Version != want {
		t.Errorf("Version = %q, want %q", Version, want)
	}
}

func TestMetadata(t *testing.T) {
	if Name != "sxhtml" || Description == "" {
		t.Errorf("Name = %q, Description = %q", Name, Description)
	}

	for i, a := range Author {
		if a.Name == "" && a.Email == "" {
			t.Errorf("Author[%d] is empty", i)
		}
	}
}

func TestDirs(t *testing.T) {
	for name, dir := range map[string]string{
		"ConfigDir": ConfigDir(),
		"CacheDir":  CacheDir(),
	} {
		if filepath.Base(dir) != Prefix() {
			t.Errorf("%s() = %q, want base %q", name, dir, Prefix())
		}
	}

	if Prefix() == "" || strings.HasPrefix(Prefix(), ".") {
		t.Errorf("Prefix() = %q", Prefix())
	}
}

var (
	errA = errors.New("a")
	errB = errors.New("b")
)

func TestMakeError(t *testing.T) {
	tests := []struct {
		name string
		errs []error
		want string
		len  int
	}{
		{name: "none", errs: nil, want: "", len: 0},
		{name: "nils", errs: []error{nil, nil}, want: "", len: 0},
		{name: "two", errs: []error{errA, errB}, want: "a; b", len: 2},
		{name: "wrapped", errs: []error{fmt.Errorf("outer: %w", errA), errB}, want: "outer: a; b", len: 3},
		{name: "joined", errs: []error{errors.Join(errA, errB)}, want: "a\nb", len: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := MakeError(tt.errs...)

			if len(e) != tt.len {
				t.Fatalf("len(MakeError()) = %d, want %d: %#v", len(e), tt.len, e)
			}

			if e.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", e.Error(), tt.want)
			}

			for _, err := range tt.errs {
				if err != nil && !errors.Is(e, err) {
					t.Errorf("errors.Is(%v, %v) = false", e, err)
				}
			}
		})
	}
}

func TestError_Wrap(t *testing.T) {
	e := MakeErrorf("base %d", 1).Wrap(errA).Wrapf("top %s", "x")

	if got := e.Error(); got != "base 1; a; top x" {
		t.Errorf("Error() = %q", got)
	}

	if !errors.Is(e, errA) {
		t.Error("chain does not match errA")
	}
}

func TestAuthorInfo_String(t *testing.T) {
	tests := []struct {
		in   AuthorInfo
		want string
	}{
		{AuthorInfo{"ann", "ann@example.com"}, "ann <ann@example.com>"},
		{AuthorInfo{"ann", ""}, "ann"},
		{AuthorInfo{"", "ann@example.com"}, "<ann@example.com>"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	if v := VersionString(); !strings.HasPrefix(v, Name+" "+Version+" (") {
		t.Errorf("VersionString() = %q", v)
	}
}
