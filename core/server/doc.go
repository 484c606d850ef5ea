// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application from this configuration: the
// listen port, the optional API key guarding the query surface, and the
// upper bound for paged listings.
package server
