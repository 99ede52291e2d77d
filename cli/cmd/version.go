package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ardnew/stache/pkg"
)

// Version prints version information.
type Version struct {
	Verbose bool `help:"Include the Go toolchain and platform" short:"v"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	out := streamsFrom(ctx).out
	version := pkg.Version

	if !v.Verbose {
		_, err := fmt.Fprintln(out, pkg.Name, version)

		return err
	}

	_, err := fmt.Fprintf(out, "%s %s (%s %s/%s)\n",
		pkg.Name, version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	return err
}
