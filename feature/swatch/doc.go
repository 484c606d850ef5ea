// Package swatch mirrors the remote catalog into the relational store and
// serves it back.
//
// A pass walks every catalog page, maps each item, stages the resulting
// manufacturer, filament type and swatch states with core/reconcile, and
// applies the plan in one transaction: either the whole pass commits or the
// store is left as it was. Malformed items are skipped, fetch failures abort
// the pass before anything is written. The Scheduler repeats passes on a
// fixed interval measured from the end of the previous one.
//
// The QueryService and Handler expose the read-only listing, detail, facet,
// hex search and stats endpoints under /api/swatches.
package swatch
