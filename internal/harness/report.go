package harness

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/changeset/internal/storage"
)

var (
	// ErrDuplicateStorage is returned when the declared set names a storage
	// more than once.
	ErrDuplicateStorage = errors.New("storage declared more than once")

	// ErrUnknownStorage is returned when a storage is checked that was never
	// declared.
	ErrUnknownStorage = errors.New("storage was not declared")

	// ErrAlreadyChecked is returned when a storage is checked twice.
	ErrAlreadyChecked = errors.New("storage is already checked")
)

// Outcome is the assertion result for one declared storage.
type Outcome struct {
	Storage storage.Name

	// Checked is true when the storage had an expected changeset.
	Checked bool

	// Violation describes what went wrong. Empty when the storage behaved
	// as asserted.
	Violation string
}

// Failed reports whether the outcome is a violation.
func (o Outcome) Failed() bool {
	return o.Violation != ""
}

func (o Outcome) String() string {
	if !o.Failed() {
		return fmt.Sprintf("OK at storage %s", o.Storage)
	}
	return fmt.Sprintf("ERROR at storage %s: %s", o.Storage, o.Violation)
}

// Report holds the outcome of every declared storage, unchecked storages
// first and then checked ones, each group in declaration order.
type Report struct {
	RunID    uuid.UUID
	Outcomes []Outcome
}

// Failed reports whether any storage violated its assertion.
func (r *Report) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Failed() {
			return true
		}
	}
	return false
}

// Violations returns the failed outcomes in report order.
func (r *Report) Violations() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}

// String renders one "ERROR at storage" line per violation. It is empty
// when nothing failed.
func (r *Report) String() string {
	violations := r.Violations()
	lines := make([]string, len(violations))
	for i, o := range violations {
		lines[i] = o.String()
	}
	return strings.Join(lines, "\n")
}

// Err returns the report as a *ViolationError, or nil if nothing failed.
func (r *Report) Err() error {
	if !r.Failed() {
		return nil
	}
	return &ViolationError{Report: r}
}

// ViolationError wraps a failed Report.
type ViolationError struct {
	Report *Report
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("%d storage assertion(s) failed:\n%s", len(e.Report.Violations()), e.Report)
}

// AdapterError is returned when a storage cannot be captured. Phase is
// "before" or "after" the action.
type AdapterError struct {
	Phase string
	Err   error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("capture %s action: %v", e.Phase, e.Err)
}

// Unwrap returns the underlying storage error.
func (e *AdapterError) Unwrap() error {
	return e.Err
}
