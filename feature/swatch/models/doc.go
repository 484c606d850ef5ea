// Package models defines the gorm models of the mirrored catalog.
//
// Manufacturer, FilamentType and Swatch keep the identifiers assigned by the
// remote catalog. The three color-standard match tables are owned by their
// swatch and are replaced wholesale on every reconciliation.
package models
