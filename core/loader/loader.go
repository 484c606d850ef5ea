package loader

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Feature is a self-contained module exposing HTTP routes.
type Feature interface {
	// Name returns the unique feature name.
	Name() string
	// IsEnabled reports whether the feature should be loaded.
	IsEnabled() bool
	// Load registers the feature's routes on the router.
	Load(app fiber.Router) error
}

// Manager keeps the registry of features.
type Manager struct {
	features []Feature
}

// NewManager creates an empty feature manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a feature to the registry.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// Features returns the registered features in registration order.
func (m *Manager) Features() []Feature {
	return m.features
}

// LoadAll loads every enabled feature, stopping at the first failure.
func (m *Manager) LoadAll(app fiber.Router) error {
	seen := make(map[string]struct{}, len(m.features))
	for _, f := range m.features {
		if _, dup := seen[f.Name()]; dup {
			return fmt.Errorf("feature %s registered twice", f.Name())
		}
		seen[f.Name()] = struct{}{}

		if !f.IsEnabled() {
			continue
		}
		if err := f.Load(app); err != nil {
			return fmt.Errorf("failed to load feature %s: %w", f.Name(), err)
		}
	}
	return nil
}
