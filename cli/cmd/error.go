package cmd

import "github.com/ardnew/stache/pkg"

// Error is the error type returned by commands.
type Error = pkg.Error

var (
	ErrJSONMarshal   = pkg.NewError("marshal JSON")
	ErrYAMLMarshal   = pkg.NewError("marshal YAML")
	ErrWriteConfig   = pkg.NewError("write configuration file")
	ErrFileExists    = pkg.NewError("file exists (use --force to overwrite)")
	ErrReadTemplate  = pkg.NewError("read template")
	ErrParseTemplate = pkg.NewError("parse template")
	ErrRender        = pkg.NewError("render template")
	ErrLoadData      = pkg.NewError("load data")
	ErrWriteOutput   = pkg.NewError("write output")
	ErrWatchStdin    = pkg.NewError("cannot watch a template read from stdin")
	ErrReplStdin     = pkg.NewError("cannot read data from stdin in the REPL")
	ErrCheckFailed   = pkg.NewError("template check failed")
)
