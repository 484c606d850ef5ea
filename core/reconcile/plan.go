package reconcile

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// ApplyError reports the staged action that could not be applied.
type ApplyError struct {
	Action Action
	Err    error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("failed to %s %s %s: %v", e.Action.Type, e.Action.Kind, e.Action.Key, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// ApplyPlan executes the actions of plan against tx.
// Kinds are applied in mutator.Kinds() order. Within a kind, repeated actions for
// one key collapse onto the last staged state, creates run before updates, and
// creates go through BatchCreator when the mutator implements it.
// It stops at the first failure; the caller owns the transaction and must roll back.
func ApplyPlan(ctx context.Context, tx *gorm.DB, mutator Mutator, plan *Plan, opts ApplyOptions) (executed int, err error) {
	if opts.DryRun {
		return 0, nil
	}

	byKind := groupByKind(plan.Actions)
	if unmanaged := unmanagedKinds(byKind, mutator.Kinds()); len(unmanaged) > 0 {
		return 0, fmt.Errorf("plan contains actions for unmanaged kinds %v", unmanaged)
	}

	for _, kind := range mutator.Kinds() {
		creates, updates := byKind[kind].split()

		if len(creates) > 0 {
			if batcher, ok := mutator.(BatchCreator); ok {
				if err := batcher.CreateBatch(ctx, tx, kind, creates); err != nil {
					return executed, &ApplyError{Action: creates[0], Err: err}
				}
				executed += len(creates)
			} else {
				for _, action := range creates {
					if err := mutator.Create(ctx, tx, action); err != nil {
						return executed, &ApplyError{Action: action, Err: err}
					}
					executed++
				}
			}
		}

		for _, action := range updates {
			if err := mutator.Update(ctx, tx, action); err != nil {
				return executed, &ApplyError{Action: action, Err: err}
			}
			executed++
		}
	}

	return executed, nil
}

func unmanagedKinds(byKind map[string]*kindActions, kinds []string) []string {
	managed := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		managed[k] = struct{}{}
	}
	var out []string
	for k := range byKind {
		if _, ok := managed[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// kindActions keeps the latest action per key, in first-seen key order.
type kindActions struct {
	order  []string
	latest map[string]Action
	first  map[string]ActionType
}

func groupByKind(actions []Action) map[string]*kindActions {
	out := make(map[string]*kindActions)
	for _, a := range actions {
		ka, ok := out[a.Kind]
		if !ok {
			ka = &kindActions{latest: make(map[string]Action), first: make(map[string]ActionType)}
			out[a.Kind] = ka
		}
		if _, seen := ka.latest[a.Key]; !seen {
			ka.order = append(ka.order, a.Key)
			ka.first[a.Key] = a.Type
		}
		ka.latest[a.Key] = a
	}
	return out
}

// split returns the collapsed creates and updates. A key first staged as a
// create stays a create even when later actions in the pass updated it.
func (ka *kindActions) split() (creates, updates []Action) {
	if ka == nil {
		return nil, nil
	}
	for _, key := range ka.order {
		a := ka.latest[key]
		if ka.first[key] == ActionCreate {
			a.Type = ActionCreate
			creates = append(creates, a)
		} else {
			updates = append(updates, a)
		}
	}
	return creates, updates
}
