package reconcile

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// View is the in-progress pass's picture of the store: the keys persisted
// when the pass started plus every key created earlier in the same pass.
type View struct {
	persisted map[string]map[string]struct{}
	staged    map[string]map[string]struct{}
}

// NewView creates an empty view.
func NewView() *View {
	return &View{
		persisted: make(map[string]map[string]struct{}),
		staged:    make(map[string]map[string]struct{}),
	}
}

// Seed records keys that already exist in the store for kind.
func (v *View) Seed(kind string, keys []string) {
	set, ok := v.persisted[kind]
	if !ok {
		set = make(map[string]struct{}, len(keys))
		v.persisted[kind] = set
	}
	for _, k := range keys {
		set[k] = struct{}{}
	}
}

// Has reports whether key of kind is visible to the pass.
func (v *View) Has(kind, key string) bool {
	if _, ok := v.persisted[kind][key]; ok {
		return true
	}
	_, ok := v.staged[kind][key]
	return ok
}

// Persisted returns the number of keys of kind present when the pass started.
func (v *View) Persisted(kind string) int {
	return len(v.persisted[kind])
}

func (v *View) markStaged(kind, key string) {
	set, ok := v.staged[kind]
	if !ok {
		set = make(map[string]struct{})
		v.staged[kind] = set
	}
	set[key] = struct{}{}
}

// BuildView loads the persisted keys of every adapter kind.
// Pass the pass transaction as db so the view and the writes share one snapshot.
func BuildView(ctx context.Context, db *gorm.DB, adapter Adapter) (*View, error) {
	view := NewView()
	for _, kind := range adapter.Kinds() {
		keys, err := adapter.LoadKeys(ctx, db, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s keys: %w", kind, err)
		}
		view.Seed(kind, keys)
	}
	return view, nil
}

// Stager turns desired entity states into a plan of create/update actions.
// A Stager is single-writer: one per pass, driven from one goroutine, so two
// records sharing a new parent produce exactly one create.
type Stager struct {
	view    *View
	plan    Plan
	touched map[string]map[string]struct{}
}

// NewStager creates a stager over view.
func NewStager(view *View) *Stager {
	return &Stager{
		view:    view,
		plan:    Plan{Summary: PlanSummary{Kinds: make(map[string]KindSummary)}},
		touched: make(map[string]map[string]struct{}),
	}
}

// Stage records the desired state of one entity and returns the staged action.
// Absent keys become creates and are visible to later Stage calls; present keys
// become full-overwrite updates (last writer in the pass wins).
// Summary counts are per distinct key.
func (s *Stager) Stage(kind, key string, entity Entity) Action {
	action := Action{
		Type:   ActionUpdate,
		Kind:   kind,
		Key:    key,
		Seq:    len(s.plan.Actions),
		Entity: entity,
	}

	if !s.view.Has(kind, key) {
		action.Type = ActionCreate
		s.view.markStaged(kind, key)
	}

	if s.firstTouch(kind, key) {
		counts := s.plan.Summary.Kinds[kind]
		if action.Type == ActionCreate {
			counts.Creates++
		} else {
			counts.Updates++
		}
		s.plan.Summary.Kinds[kind] = counts
	}

	s.plan.Actions = append(s.plan.Actions, action)
	s.plan.Summary.TotalActions++
	return action
}

func (s *Stager) firstTouch(kind, key string) bool {
	set, ok := s.touched[kind]
	if !ok {
		set = make(map[string]struct{})
		s.touched[kind] = set
	}
	if _, seen := set[key]; seen {
		return false
	}
	set[key] = struct{}{}
	return true
}

// Plan returns the staged plan.
func (s *Stager) Plan() *Plan {
	return &s.plan
}
