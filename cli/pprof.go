//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/stache/log"
	"github.com/ardnew/stache/profile"
)

// pprofConfig holds the profiling flags, which exist only in binaries built
// with the pprof tag.
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Profile the command (${enum})" placeholder:"MODE" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Write profiles to this directory"                     type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling options"}
}

// start begins the configured profile and returns the func that ends it.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	attrs := []slog.Attr{slog.String("mode", f.Mode), slog.String("dir", f.Dir)}

	session := profile.Start(
		profile.WithMode(f.Mode),
		profile.WithDir(f.Dir),
		profile.WithQuiet(true),
	)

	if f.Mode != "" {
		log.DebugContext(ctx, "profiling", attrs...)
	}

	return func() {
		session.Stop()

		if f.Mode != "" {
			log.DebugContext(ctx, "profile written", attrs...)
		}
	}
}
