package harness

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roach88/changeset/internal/diff"
	"github.com/roach88/changeset/internal/registry"
	"github.com/roach88/changeset/internal/storage"
)

// TestingT is the subset of testing.TB used by AssertStorageChanges.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
}

// Option configures an Action.
type Option func(*config)

type config struct {
	ctx      context.Context
	logger   *zap.Logger
	newRunID func() uuid.UUID
}

// WithContext sets the context used to capture storages.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRunIDs sets the generator for report run IDs.
func WithRunIDs(next func() uuid.UUID) Option {
	return func(c *config) {
		c.newRunID = next
	}
}

// Expectation pairs a storage with the changeset it is expected to undergo.
type Expectation struct {
	storage storage.Tracked
	changes any
	index   int
}

// Expect builds an Expectation. The changeset type must be the one the
// storage's diff produces. Expecting an empty map changeset asserts that no
// entry changed, so an unchanged storage satisfies it.
func Expect[V, C any](s storage.Storage[V, C], changes C) Expectation {
	return Expectation{storage: s, changes: changes}
}

// Storage returns the storage the expectation applies to.
func (e Expectation) Storage() storage.Tracked {
	return e.storage
}

// declared is an unchecked storage with its declaration position.
type declared struct {
	storage storage.Tracked
	index   int
}

func declaredName(d declared) storage.Name {
	return d.storage.Name()
}

func expectationName(e Expectation) storage.Name {
	return e.storage.Name()
}

// Action is a single-use builder for one storage assertion run.
//
// The declared storages are partitioned into unchecked and checked. Both
// lists start as the declaration order and CheckStorage moves one storage
// at a time across.
type Action[R any] struct {
	cfg       config
	fn        func() R
	declared  registry.List[storage.Tracked]
	unchecked registry.List[declared]
	checked   registry.List[Expectation]
	err       error
	done      bool
}

// DoAction starts an assertion run for fn over the declared storages.
func DoAction[R any](storages []storage.Tracked, fn func() R, opts ...Option) *Action[R] {
	cfg := config{
		ctx:      context.Background(),
		logger:   zap.NewNop(),
		newRunID: uuid.New,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Action[R]{
		cfg:      cfg,
		fn:       fn,
		declared: registry.Of(storages...),
	}
	for i, s := range storages {
		a.unchecked = a.unchecked.Append(declared{storage: s, index: i})
	}

	if err := registry.Unique(a.unchecked, declaredName); err != nil {
		a.err = fmt.Errorf("%w: %w", ErrDuplicateStorage, err)
	}
	return a
}

// Do starts an assertion run for an action without a result.
func Do(storages []storage.Tracked, fn func(), opts ...Option) *Action[struct{}] {
	return DoAction(storages, func() struct{} {
		fn()
		return struct{}{}
	}, opts...)
}

// CheckStorage records the expected changeset of one declared storage.
//
// Errors are kept and returned by Run; once one has happened further calls
// are ignored. CheckStorage panics if the action has already run.
func (a *Action[R]) CheckStorage(e Expectation) *Action[R] {
	if a.done {
		panic("harness: CheckStorage called after the action ran")
	}
	if a.err != nil {
		return a
	}

	name := e.storage.Name()
	d, rest, err := registry.Extract(a.unchecked, declaredName, name)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		if _, _, cerr := registry.Extract(a.checked, expectationName, name); cerr == nil {
			a.err = fmt.Errorf("%w: %s", ErrAlreadyChecked, name)
		} else {
			a.err = fmt.Errorf("%w: %s", ErrUnknownStorage, name)
		}
		return a
	case err != nil:
		a.err = err
		return a
	}

	e.index = d.index
	a.unchecked = rest
	a.checked = a.checked.Append(e)
	return a
}

// Run executes the action once and evaluates every declared storage.
//
// A declaration error is returned before the action runs. An *AdapterError
// means a storage could not be captured; if it happens after the action,
// the action's result is still returned. Otherwise the Report holds one
// outcome per declared storage. Run panics if called twice.
func (a *Action[R]) Run() (R, *Report, error) {
	var zero R
	if a.done {
		panic("harness: action already ran")
	}
	a.done = true
	if a.err != nil {
		return zero, nil, a.err
	}

	checked := a.sortedChecked()
	a.mustPartition(checked)

	runID := a.cfg.newRunID()
	log := a.cfg.logger.With(zap.Stringer("run_id", runID))

	tracked := registry.Concat(
		registry.Map(a.unchecked, func(d declared) storage.Tracked { return d.storage }),
		registry.Map(checked, Expectation.Storage),
	)

	log.Debug("capturing storages", zap.String("phase", "before"), zap.Int("storages", tracked.Len()))
	before, err := a.capture(tracked)
	if err != nil {
		return zero, nil, &AdapterError{Phase: "before", Err: err}
	}

	log.Debug("running action")
	result := a.fn()

	log.Debug("capturing storages", zap.String("phase", "after"), zap.Int("storages", tracked.Len()))
	after, err := a.capture(tracked)
	if err != nil {
		return result, nil, &AdapterError{Phase: "after", Err: err}
	}

	pairs, err := registry.Zip(before, after)
	if err != nil {
		return result, nil, &AdapterError{Phase: "after", Err: err}
	}
	changes, err := registry.TryMap(pairs, func(p registry.Pair[storage.Capture, storage.Capture]) (diff.Diff[any], error) {
		return p.Left.Changes(p.Right)
	})
	if err != nil {
		return result, nil, &AdapterError{Phase: "after", Err: err}
	}

	report := &Report{RunID: runID, Outcomes: make([]Outcome, 0, tracked.Len())}
	n := a.unchecked.Len()
	for i, d := range a.unchecked.All() {
		report.Outcomes = append(report.Outcomes, Outcome{
			Storage:   d.storage.Name(),
			Violation: uncheckedViolation(changes.At(i)),
		})
	}
	for i, e := range checked.All() {
		report.Outcomes = append(report.Outcomes, Outcome{
			Storage:   e.storage.Name(),
			Checked:   true,
			Violation: checkedViolation(e.changes, changes.At(n+i)),
		})
	}

	if report.Failed() {
		log.Info("storage assertions failed", zap.Int("violations", len(report.Violations())))
	} else {
		log.Debug("storage assertions passed")
	}
	return result, report, nil
}

// AssertStorageChanges runs the action and reports the result on t.
// Declaration errors and adapter faults stop the test; violations mark it
// failed. The action's result is returned in every case it was produced.
func (a *Action[R]) AssertStorageChanges(t TestingT) R {
	t.Helper()
	result, report, err := a.Run()
	if err != nil {
		t.Errorf("%v", err)
		t.FailNow()
		return result
	}
	if report.Failed() {
		t.Errorf("%s", report)
	}
	return result
}

func (a *Action[R]) sortedChecked() registry.List[Expectation] {
	items := a.checked.Slice()
	slices.SortFunc(items, func(x, y Expectation) int {
		return cmp.Compare(x.index, y.index)
	})
	return registry.Of(items...)
}

// mustPartition panics unless unchecked and checked together hold each
// declared storage exactly once.
func (a *Action[R]) mustPartition(checked registry.List[Expectation]) {
	names := registry.Concat(
		registry.Map(a.unchecked, declaredName),
		registry.Map(checked, expectationName),
	)
	if names.Len() != a.declared.Len() {
		panic(fmt.Sprintf("harness: %d storages partitioned, %d declared", names.Len(), a.declared.Len()))
	}
	for s := range a.declared.Values() {
		if _, _, err := registry.Extract(names, storage.Name.String, s.Name().String()); err != nil {
			panic(fmt.Sprintf("harness: declared storage %s lost: %v", s.Name(), err))
		}
	}
}

func (a *Action[R]) capture(tracked registry.List[storage.Tracked]) (registry.List[storage.Capture], error) {
	return registry.TryMap(tracked, func(s storage.Tracked) (storage.Capture, error) {
		return s.Capture(a.cfg.ctx)
	})
}

func uncheckedViolation(got diff.Diff[any]) string {
	if !got.Changed {
		return ""
	}
	return fmt.Sprintf("expected no changes, found %v", got.To)
}

func checkedViolation(want any, got diff.Diff[any]) string {
	if !got.Changed {
		if diff.NoChange(want) {
			return ""
		}
		return fmt.Sprintf("expected change of %v, found no changes", want)
	}
	if !diff.Equivalent(want, got.To) {
		return fmt.Sprintf("expected change of %v, found %v", want, got.To)
	}
	return ""
}
