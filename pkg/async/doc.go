// Package async provides small generic helpers for concurrent work.
//
// Go starts a function and returns a Future for its result. Wait blocks on one
// future, Collect on several of the same type:
//
//	keyword := async.Go(ctx, func(ctx context.Context) ([]Template, error) {
//	    return repo.SearchKeyword(ctx, query, 30)
//	})
//	lists, err := async.Collect(ctx, keyword, semantic)
//
// Runner covers the other common shape: work that must continue after the
// HTTP response is written, such as persisting a sent email as a template.
// Tasks run on a context detached from the request's cancellation, panics are
// recovered, and failures are logged instead of returned:
//
//	runner := async.NewRunner(log, async.WithTaskTimeout(time.Minute))
//	runner.Go(r.Context(), "template.autosave", func(ctx context.Context) error {
//	    return templates.AutoSave(ctx, subject, html, sender)
//	})
//
//	// on shutdown
//	_ = runner.Wait(shutdownCtx)
//
// # Error Handling
//
// Panics in Go callbacks and Runner tasks are converted into errors
// matching ErrPanic.
package async
