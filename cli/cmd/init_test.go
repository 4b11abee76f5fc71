package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/sxhtml/render"
)

type initCLI struct {
	Verbose bool `help:"Verbose output."`

	Init   Init   `cmd:""`
	Render Render `cmd:""`
}

func parseInit(t *testing.T, confPath string, args ...string) (*kong.Context, *initCLI) {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{
		ConfigIdentifier:  confPath,
		DoctypeIdentifier: render.DefaultDoctype,
	})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return ktx, &cli
}

func TestInit_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		existing bool
		wantErr  error
	}{
		{name: "create", args: []string{"--verbose", "init"}},
		{name: "overwrite with force", args: []string{"--verbose", "init", "--force"}, existing: true},
		{name: "existing without force", args: []string{"init"}, existing: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.existing {
				writeFile(t, filepath.Dir(confPath), "config.yaml", "old: true\n")
			}

			ktx, cli := parseInit(t, confPath, tt.args...)

			err := cli.Init.Run(WithContext(t.Context(), ktx))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("config is not YAML: %v\n%s", err, content)
			}

			want := map[string]string{
				"verbose":    "true",
				"escape":     "false",
				"keep-going": "false",
				"max-depth":  "64",
				"doctype":    render.DefaultDoctype,
			}

			for key, value := range want {
				if s := fmt.Sprint(got[key]); s != value {
					t.Errorf("config[%q] = %q, want %q", key, s, value)
				}
			}

			for _, key := range []string{"help", "force", "old", "data", "output"} {
				if _, ok := got[key]; ok {
					t.Errorf("config has key %q:\n%s", key, content)
				}
			}
		})
	}
}

func TestInit_NoContext(t *testing.T) {
	err := (&Init{}).Run(context.Background())
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Run() error = %v, want %v", err, ErrWriteConfig)
	}
}

func TestPlainValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "<nil>"},
		{"bool", true, "true"},
		{"string", "x", "x"},
		{"empty string", "", "<nil>"},
		{"int", 7, "7"},
		{"slice", []string{"a", "b"}, "[a b]"},
		{"empty slice", []string{}, "<nil>"},
		{"unsupported", 1.5, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmt.Sprint(plainValue(tt.in)); got != tt.want {
				t.Errorf("plainValue(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
