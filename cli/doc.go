// Package cli contains the command line interface for sxhtml.
//
// # Usage
//
//	sxhtml [flags] [render] [TEMPLATE]
//	sxhtml fmt [native|json|yaml] [TEMPLATE]
//	sxhtml repl [flags]
//	sxhtml init [--force]
//
// Render is the default command, so a bare template path renders it:
//
//	sxhtml -d site.yaml -L partials page.sx -o index.html
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory. Keys are flag names; nested mappings join their keys with '-'.
// The init command writes the file from the current flags.
//
// # Logging Options
//
//   - --log-level: Minimum level (trace, debug, info, warn, error)
//   - --log-format: Output format (text, json)
//   - --log-time-layout: Timestamp layout or name (rfc3339, kitchen, none)
//   - --log-caller: Include caller information
//   - --log-pretty: Colorize output on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: Profile to collect (allocs, block, clock, cpu,
//     goroutine, heap, mem, mutex, thread, trace)
//   - --pprof-dir: Profile output directory
package cli
