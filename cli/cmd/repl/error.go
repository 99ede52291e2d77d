package repl

import "github.com/ardnew/stache/pkg"

var (
	ErrOutOfBounds  = pkg.NewError("index out of range")
	ErrEditDeclined = pkg.NewError("decline edit")
	ErrNoSession    = pkg.NewError("no data bound to the session")
)
