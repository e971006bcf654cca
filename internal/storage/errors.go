package storage

import "fmt"

// Error reports a failure to read, decode or write a storage.
type Error struct {
	// Storage is the storage that failed.
	Storage Name

	// Op is the failing operation, e.g. "snapshot" or "insert".
	Op string

	// Err is the underlying backend or codec error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s: %s: %v", e.Storage, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(name Name, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Storage: name, Op: op, Err: err}
}
