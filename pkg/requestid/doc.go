// Package requestid correlates log records of one HTTP request.
//
// Middleware assigns every request an id (the client's X-Request-ID when it
// is well formed, a UUID otherwise), stores it in the request context and
// echoes it back. LoggerExtractor plugs into logger.WithContextExtractors so
// session store and interceptor logs carry the id of the request that
// produced them.
package requestid
