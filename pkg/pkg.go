// Package pkg holds the identity of the stache command: its name, version and
// the per-user directories it reads configuration from and caches state in.
package pkg

import (
	_ "embed"
	"strings"
)

const (
	Name        = "stache"
	Description = "Logic-less Mustache template renderer"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, without surrounding space.
//
//nolint:gochecknoglobals
var Version = strings.TrimSpace(version)

// EnvPrefix is the prefix of every environment variable the command reads.
func EnvPrefix() string { return strings.ToUpper(Name) }
