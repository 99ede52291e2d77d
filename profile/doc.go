// Package profile wraps [github.com/pkg/profile] for stache.
//
// Profiling is compiled in only with the pprof build tag. Without it, [Start]
// returns a session whose Stop does nothing and [Modes] is empty, so callers
// need no build tags of their own.
//
//	go build -tags pprof -o stache .
//	./stache --pprof-mode cpu render page.mustache --data site.yaml
//	go tool pprof -http=: ~/.cache/stache/pprof/cpu.pprof
//
// The mode names follow the profiler kinds of [github.com/pkg/profile]:
// "mem" records the default memory profile, "heap" live allocations, and
// "allocs" every allocation.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
