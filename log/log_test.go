package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func plain(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{WithPretty(false), WithTimeLayout("none")}, opts...)...)
}

func TestMake_Defaults(t *testing.T) {
	l := Make(nil)

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", l.Level(), DefaultLevel)
	}

	if l.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", l.Format(), DefaultFormat)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		want  []string
	}{
		{LevelTrace, []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{LevelInfo, []string{"INFO", "WARN", "ERROR"}},
		{LevelError, []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer

			l := plain(&buf, WithLevel(tt.level))
			l.Trace("m")
			l.Debug("m")
			l.Info("m")
			l.Warn("m")
			l.Error("m")

			var got []string
			for line := range strings.Lines(buf.String()) {
				level, _, _ := strings.Cut(strings.TrimPrefix(line, "level="), " ")
				got = append(got, level)
			}

			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("levels written = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	l := plain(&buf, WithFormat(FormatJSON)).With(slog.String("component", "test"))
	l.InfoContext(t.Context(), "hello", slog.Int("n", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	for key, want := range map[string]any{
		"level": "INFO", "msg": "hello", "component": "test", "n": float64(3),
	} {
		if rec[key] != want {
			t.Errorf("%s = %v, want %v", key, rec[key], want)
		}
	}

	if _, ok := rec["time"]; ok {
		t.Error("time written with layout none")
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithCaller(true)).Info("where")

	if !strings.Contains(buf.String(), "log_test.go:") {
		t.Errorf("caller not reported in %q", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := plain(&buf, WithLevel(LevelError))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	base.Debug("base")
	wrapped.Debug("wrapped")

	if out := buf.String(); strings.Contains(out, "base") || !strings.Contains(out, "wrapped") {
		t.Errorf("output = %q", out)
	}

	if base.Level() != LevelError {
		t.Errorf("Wrap() changed the original logger level to %v", base.Level())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Info("discarded")
	l.With(slog.String("k", "v")).Error("discarded")
	l.WithGroup("g").Trace("discarded")

	if l.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger is enabled")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero Logger does not report defaults")
	}

	var buf bytes.Buffer

	l.Wrap(WithOutput(&buf), WithPretty(false), WithLevel(LevelInfo)).Info("now written")

	if !strings.Contains(buf.String(), "now written") {
		t.Errorf("Wrap() of zero Logger wrote %q", buf.String())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	l := plain(&buf, WithFormat(FormatJSON))

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Go(func() {
			l.With(slog.Int("worker", i)).Info("tick")
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 16 {
		t.Errorf("wrote %d records, want 16", n)
	}
}

func TestPretty(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   []string
	}{
		{
			name:   "text",
			format: FormatText,
			want:   []string{"level=WARN", "msg=careful", "req.id=7", "req.error=boom", "ok=true"},
		},
		{
			name:   "json",
			format: FormatJSON,
			want:   []string{"{\n  level: WARN,", "\n  msg: careful,", "\n  req.id: 7,", "\n  req.ok: true\n}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			l := Make(&buf, WithFormat(tt.format), WithTimeLayout("none"))
			l.WithGroup("req").
				With(slog.Int("id", 7)).
				Warn("careful", Err(errors.New("boom")), slog.Group("", slog.Bool("ok", true)))

			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output %q does not contain %q", out, want)
				}
			}
		})
	}
}

func TestDefault(t *testing.T) {
	saved := Default()
	t.Cleanup(func() { SetDefault(saved) })

	var buf bytes.Buffer

	SetDefault(plain(&buf))
	Config(WithLevel(LevelDebug))

	Debug("package debug", slog.String("key", "value"))
	With(slog.String("scope", "pkg")).Info("package info")
	WarnContext(t.Context(), "package warn")
	Trace("not written")

	out := buf.String()
	for _, want := range []string{
		`msg="package debug" key=value`,
		`msg="package info" scope=pkg`,
		`msg="package warn"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}

	if strings.Contains(out, "not written") {
		t.Error("trace record written at debug level")
	}
}
