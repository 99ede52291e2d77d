//go:build pprof

package profile

import (
	"slices"

	"github.com/pkg/profile"
)

// kind pairs a mode name with the profiler that records it.
type kind struct {
	name   string
	record func(*profile.Profile)
}

// kinds is sorted by name.
var kinds = []kind{
	{"allocs", profile.MemProfileAllocs},
	{"block", profile.BlockProfile},
	{"clock", profile.ClockProfile},
	{"cpu", profile.CPUProfile},
	{"goroutine", profile.GoroutineProfile},
	{"heap", profile.MemProfileHeap},
	{"mem", profile.MemProfile},
	{"mutex", profile.MutexProfile},
	{"thread", profile.ThreadcreationProfile},
	{"trace", profile.TraceProfile},
}

// Modes returns the names accepted by [WithMode], sorted.
func Modes() []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.name
	}

	return names
}

func start(c Config) Session {
	i := slices.IndexFunc(kinds, func(k kind) bool { return k.name == c.Mode })
	if i < 0 {
		return noop{}
	}

	// Signals are handled by the caller, which stops the session on exit.
	opts := []func(*profile.Profile){kinds[i].record, profile.NoShutdownHook}

	if c.Dir != "" {
		opts = append(opts, profile.ProfilePath(c.Dir))
	}

	if c.Quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
