// Package matcher finds the swatches closest to a color.
//
// FindClosest is a pure linear scan using Euclidean distance in RGB space.
// Service feeds it from a snapshot of the swatch table that expires after a
// TTL and is invalidated by the sync engine after every committed pass.
package matcher
