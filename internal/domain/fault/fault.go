// Package fault defines the error kinds shared by every layer.
//
// Component errors wrap one of these kinds so that callers (the HTTP layer,
// the CLI) can classify a failure with errors.Is without knowing which
// component produced it.
package fault

import "errors"

// Sentinel kinds.
var (
	// ErrValidation marks malformed input shape or range.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a referenced record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPrecondition marks an operation attempted in the wrong state.
	ErrPrecondition = errors.New("precondition failed")
	// ErrStore marks a failure of the underlying record store.
	ErrStore = errors.New("store error")
)

// Kind returns the sentinel kind carried by err, or nil if err carries none.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrPrecondition, ErrStore} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsPrecondition reports whether err is a precondition failure.
func IsPrecondition(err error) bool { return errors.Is(err, ErrPrecondition) }

// IsStore reports whether err is a store failure.
func IsStore(err error) bool { return errors.Is(err, ErrStore) }
