// Package bind connects templates to the outside world: data documents,
// partial files on disk, lambdas compiled from expressions, and file change
// notifications.
//
// # Data
//
// [LoadData] decodes a YAML (or JSON) document into a [mustache.Value],
// keeping object keys in document order. Multiple documents in one stream
// are merged with [Merge], later keys replacing earlier ones.
//
// # Partials
//
// [FileContext] is a [mustache.Context] that resolves partial names against
// the data first, then against template files found in a list of
// directories built by [SearchPath]:
//
//	dirs := bind.SearchPath("STACHE_PATH", "./partials")
//	ctx := bind.NewFileContext(data, bind.WithDirs(dirs...))
//	out := tmpl.RenderContext(ctx)
//
// # Lambdas
//
// [CompileLambda] and [CompileSectionLambda] turn an expression into a
// [mustache.Lambda] or [mustache.LambdaRender]. The expression sees the
// section text as "text" and may call render(s) and escape(s). escape is
// [Lambda.Escape], which [Lambdas] sets to the escaping of the render:
//
//	shout, _ := bind.CompileLambda("shout", `upper(text) + "!"`, logger)
//	bold, _ := bind.CompileSectionLambda("bold", `"<b>" + render(text) + "</b>"`, logger)
//
// # Watching
//
// [Watch] calls a function after a burst of changes to any watched file or
// directory has settled.
package bind
