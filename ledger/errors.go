package ledger

import (
	"errors"
	"fmt"
)

var (
	// validation
	ErrMissingTarget = errors.New("missing target user")
	ErrSelfTarget    = errors.New("cannot request self")
	ErrBadKind       = errors.New("unknown request kind")
	ErrBadAction     = errors.New("unknown response action")

	// authorization
	ErrBlocked       = errors.New("pair is blocked")
	ErrAdminExcluded = errors.New("admins do not participate in requests")

	// not found / conflict
	ErrNotFound = errors.New("request not found")
	ErrResolved = errors.New("request already resolved")

	// raised by RequestStore.Create on a concurrent insert for the same
	// ordered pair; resolved inside Submit, never returned to callers
	ErrDuplicatePair = errors.New("duplicate request pair")
)

// LimitError reports an exhausted daily quota. It carries the numbers
// the caller needs to offer an upgrade path.
type LimitError struct {
	Limit     int
	Remaining int
	IsPremium bool
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("daily request limit reached (%d)", e.Limit)
}
