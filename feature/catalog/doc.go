// Package catalog is the client side of the remote swatch catalog.
//
// A Fetcher walks the paginated collection by following each page's "next"
// cursor, spacing requests with a rate limiter and guarding them with a
// circuit breaker. The walk ends on a null cursor, at a page ceiling, or when
// a cursor repeats. Map turns a single raw item into a RemoteRecord; it is
// pure and rejects items missing their identifier or parent references.
package catalog
