//go:build !pprof

package profile

// Modes returns nil when built without the pprof build tag.
func Modes() []string { return nil }

func start(Config) Session { return noop{} }
