// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses the client's X-Request-ID header when it is at most 128
// characters of [a-zA-Z0-9_-], otherwise it generates a UUID. The id is echoed
// in the response and available through FromContext. LoggerExtractor plugs
// the id into logger.NewContextHandler so request logs carry request_id.
package requestid
