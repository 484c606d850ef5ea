// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which defines whether it is
// enabled and how it registers its routes.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registry of features: Register adds one, LoadAll loads
// every enabled feature. The swatch query surface and the nearest-color matcher
// are both loaded this way.
package loader
