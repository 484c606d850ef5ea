package reconcile

import (
	"context"

	"gorm.io/gorm"
)

// Adapter defines the model-specific side of a reconciliation.
// An adapter knows which entity kinds it manages, in dependency order, and
// how to list the keys already persisted for each of them.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g. "swatch").
	Name() string

	// Kinds returns the managed entity kinds ordered parents first.
	// ApplyPlan applies kinds in this order, so a parent row always exists
	// before the child row referencing it is written.
	Kinds() []string

	// LoadKeys returns every persisted key of the given kind.
	// Implementations should use a single batch query selecting only the key column.
	LoadKeys(ctx context.Context, db *gorm.DB, kind string) ([]string, error)
}

// Mutator applies staged actions. Every call receives the pass transaction.
type Mutator interface {
	Adapter

	// Create inserts the action's entity.
	Create(ctx context.Context, tx *gorm.DB, action Action) error

	// Update overwrites the persisted entity with the action's entity.
	Update(ctx context.Context, tx *gorm.DB, action Action) error
}

// BatchCreator is optionally implemented by a Mutator to insert many
// entities of one kind in a single statement.
type BatchCreator interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, kind string, actions []Action) error
}
