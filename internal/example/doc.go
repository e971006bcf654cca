// Package example is a small pallet used to exercise the harness end to
// end. Its dispatchables follow the usual rule that a failed call writes
// nothing, which the tests assert with harness runs that check no storage.
package example
