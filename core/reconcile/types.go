package reconcile

// ActionType represents the type of staged mutation.
type ActionType string

const (
	// ActionCreate inserts an entity that is absent from the pass view.
	ActionCreate ActionType = "create"
	// ActionUpdate overwrites every mutable attribute of a present entity.
	ActionUpdate ActionType = "update"
)

// Entity is the adapter-defined value carried by an action (e.g. a gorm model).
type Entity any

// Action represents one staged mutation.
type Action struct {
	// Type specifies the mutation to perform.
	Type ActionType `json:"type"`

	// Kind is the entity kind (e.g. "manufacturer", "swatch").
	Kind string `json:"kind"`

	// Key is the externally assigned entity identifier.
	Key string `json:"key"`

	// Seq is the position of the action within the plan.
	Seq int `json:"seq"`

	// Entity is the full desired state of the entity.
	Entity Entity `json:"-"`
}

// KindSummary counts staged actions for one entity kind.
type KindSummary struct {
	Creates int `json:"creates"`
	Updates int `json:"updates"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// TotalActions is the number of staged actions.
	TotalActions int `json:"total_actions"`

	// Kinds holds per-kind counts.
	Kinds map[string]KindSummary `json:"kinds"`
}

// Plan is the ordered list of staged actions for one pass.
type Plan struct {
	// Actions in staging order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// ApplyOptions controls plan execution.
type ApplyOptions struct {
	// DryRun prevents execution of any mutation if true.
	DryRun bool
}
