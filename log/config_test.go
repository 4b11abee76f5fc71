package log

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		check func(config) bool
	}{
		{"level", WithLevel(LevelError), func(c config) bool { return c.level == LevelError }},
		{"format", WithFormat(FormatJSON), func(c config) bool { return c.format == FormatJSON }},
		{"caller", WithCaller(true), func(c config) bool { return c.caller }},
		{"pretty", WithPretty(false), func(c config) bool { return !c.pretty }},
		{"nil output", WithOutput(nil), func(c config) bool { return c.output != nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if c := makeConfig(nil, tt.opt); !tt.check(c) {
				t.Errorf("option %s not applied: %+v", tt.name, c)
			}
		})
	}
}

func TestWithDefaults_Resets(t *testing.T) {
	c := makeConfig(nil, WithLevel(LevelError), WithCaller(true), WithDefaults(nil))

	if c.level != DefaultLevel || c.caller != DefaultCaller || c.format != DefaultFormat {
		t.Errorf("WithDefaults() left %+v", c)
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{layout: "RFC3339", want: "2023-10-15T14:30:45Z"},
		{layout: "rfc-3339-nano", want: "2023-10-15T14:30:45.123456789Z"},
		{layout: "DateTime", want: "2023-10-15 14:30:45"},
		{layout: "kitchen", want: "2:30PM"},
		{layout: "ms", want: "Oct 15 14:30:45.123"},
		{layout: "2006/01/02", want: "2023/10/15"},
		{layout: "UNKNOWN_FORMAT", want: "UNKNOWN_FORMAT"},
		{layout: "none", want: ""},
		{layout: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(now); got != tt.want {
				t.Errorf("format(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{" debug ", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", LevelInfo + 2},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{
		"json":  FormatJSON,
		"TEXT":  FormatText,
		"other": DefaultFormat,
	} {
		if got := ParseFormat(input); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestLevelsAndFormats(t *testing.T) {
	if got := strings.Join(slices.Collect(Levels()), ","); got != "trace,debug,info,warn,error" {
		t.Errorf("Levels() = %s", got)
	}

	if got := strings.Join(slices.Collect(Formats()), ","); got != "text,json" {
		t.Errorf("Formats() = %s", got)
	}

	for name := range Levels() {
		if ParseLevel(name).String() != name {
			t.Errorf("ParseLevel(%q) does not round trip", name)
		}
	}
}
