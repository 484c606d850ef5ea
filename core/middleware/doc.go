// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: optional API key validation for the query surface.
//   - rayid: assigns every request a RayID, stored in the context locals and
//     echoed in the X-Ray-ID response header for tracing.
//
// RayID must be registered first so every later log line can carry it.
package middleware
