// Package harness asserts exactly how an action changes a declared set of
// storages.
//
// A test declares every storage the action might touch, states the
// changeset it expects for the storages that should change, and runs the
// action once:
//
//	harness.DoAction(p.Storages(), func() error {
//		return p.DoSomething(ctx, alice, 42)
//	}).
//		CheckStorage(harness.Expect(p.Something, diff.ChangedTo(diff.NowSome[uint32](42)))).
//		AssertStorageChanges(t)
//
// Every declared storage is captured before and after the action. Storages
// that were checked must have changed by exactly the expected changeset;
// every other declared storage must be unchanged. All violations are
// collected into a single Report rather than stopping at the first one.
//
// # Errors
//
// Three kinds of failure are kept apart:
//
//   - Declaration errors (a storage declared twice, checked twice, or
//     checked without being declared) are returned by Run before the
//     action executes.
//   - Adapter faults (a storage cannot be read or decoded) abort the run
//     with an *AdapterError and no report.
//   - Violations are the assertion results proper and are returned in the
//     Report.
//
// AssertStorageChanges maps these onto a TestingT: faults fail the test
// immediately, violations are reported with Errorf.
package harness
