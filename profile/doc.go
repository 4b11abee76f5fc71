// Package profile starts an optional runtime profiler.
//
// Profiling is compiled in only with the pprof build tag, which links
// [github.com/pkg/profile] and registers the [net/http/pprof] handlers.
// Without the tag every [Profiler] is a no-op and [Modes] is empty.
//
//	go build -tags pprof .
//	sxhtml --pprof-mode cpu render page.sx
//	go tool pprof -http=: ~/.cache/sxhtml/pprof/cpu.pprof
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace.
package profile
