package weft

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvariantError reports an internal-consistency breach: a framework bug,
// or a collection that broke an invariant the framework depends on (such
// as duplicate item identities). These are not recoverable and are raised
// by panicking so they fail loudly during development.
type InvariantError struct {
	// Op names the operation that detected the breach.
	Op string
	// Detail describes what was found.
	Detail string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("weft: invariant violated in %s: %s", e.Op, e.Detail)
}

// ConfigErrorf returns a configuration error: the caller supplied invalid
// arguments (toggling a non-branch, an item absent from the collection,
// an unsupported enum value). Configuration errors surface immediately to
// the caller and are never retried.
func ConfigErrorf(format string, args ...any) error {
	return errors.Errorf("weft: "+format, args...)
}
