// Package reconcile provides a generic two-phase staging engine for mirroring
// externally keyed entities into a relational store.
//
// Reconciliation is split into two explicit phases so the atomicity and
// visibility rules of a sync pass follow from structure rather than call order:
//
//  1. Stage: a Stager walks the desired entity states and records them as data
//     (Actions) against a View of the store. The View holds the keys persisted
//     when the pass started plus every key created earlier in the same pass, so
//     two records referencing the same new parent stage a single create.
//
//  2. Apply: ApplyPlan executes the Plan inside the caller's transaction,
//     parents before children (Adapter.Kinds order). The first failure stops
//     execution; the caller rolls the whole transaction back.
//
// # Architecture
//
//   - Adapter: model-specific knowledge of kinds and how to load their keys.
//   - Mutator: model-specific create/update against a transaction.
//   - BatchCreator: optional bulk insert, used when available.
//
// # Usage Example
//
//	err := db.Transaction(func(tx *gorm.DB) error {
//	    view, err := reconcile.BuildView(ctx, tx, adapter)
//	    if err != nil {
//	        return err
//	    }
//	    stager := reconcile.NewStager(view)
//	    for _, m := range manufacturers {
//	        stager.Stage("manufacturer", m.Key(), m)
//	    }
//	    _, err = reconcile.ApplyPlan(ctx, tx, adapter, stager.Plan(), reconcile.ApplyOptions{})
//	    return err
//	})
//
// # Conflict policy
//
// Updates are full overwrites with "last writer in the pass wins" semantics and
// no detection of concurrent external writers.
package reconcile
