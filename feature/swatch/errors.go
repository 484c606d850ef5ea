package swatch

import (
	"fmt"

	"filament-sync/core/reconcile"
)

// ReconcileError is fatal to a pass: the pass transaction is rolled back.
type ReconcileError struct {
	// Action is the staged mutation that failed, if the failure happened while applying.
	Action *reconcile.Action
	Err    error
}

func (e *ReconcileError) Error() string {
	if e.Action != nil {
		return fmt.Sprintf("reconcile %s %s: %v", e.Action.Kind, e.Action.Key, e.Err)
	}
	return fmt.Sprintf("reconcile: %v", e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// TransactionError reports a failure to open or commit the pass transaction.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("pass transaction: %v", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
