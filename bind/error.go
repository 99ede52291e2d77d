package bind

import "github.com/ardnew/stache/pkg"

// Errors returned by this package. Wrapped copies match these sentinels
// under [errors.Is].
var (
	ErrDecodeData    = pkg.NewError("decode data")
	ErrLambdaSyntax  = pkg.NewError("invalid lambda definition (want NAME=EXPR)")
	ErrLambdaCompile = pkg.NewError("compile lambda")
	ErrLambdaResult  = pkg.NewError("lambda result is not a string")
	ErrWatch         = pkg.NewError("watch files")
)
