// Package log is a small leveled logger over [log/slog].
//
// A [Logger] is made once with functional options and never changes
// afterwards; [Logger.Wrap] and [Logger.With] derive new loggers. The zero
// Logger discards everything, so components can hold one unconditionally.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("rfc3339nano"))
//
//	logger.Debug("loaded", slog.Int("templates", n))
//
// Besides the [log/slog] levels there is [LevelTrace], used for per-node
// parse and render events.
//
// With [WithPretty] records are styled for a terminal: keys are dimmed,
// values are colored by kind and JSON records are indented. Colors are
// dropped when the output is not a terminal.
//
// The package-level functions use a default logger that writes to standard
// error and is reconfigured with [Config].
package log
