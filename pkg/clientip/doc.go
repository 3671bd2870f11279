// Package clientip resolves the address of the client behind the reverse
// proxies the server is deployed with.
//
// Headers are consulted in order: CF-Connecting-IP, X-Real-IP, then the
// first valid entry of X-Forwarded-For. RemoteAddr is the fallback.
// Invalid values are skipped, so a forged header with garbage falls
// through to the next source.
//
// Middleware stores the resolved address in the request context, where rate
// limiting and logging read it:
//
//	r.Use(clientip.Middleware)
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
package clientip
