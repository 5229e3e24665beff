package service

import (
	"context"
	"errors"
	"time"

	"github.com/cardgate/cardgate/internal/gate/store"
)

// ResolutionOutcome classifies what the identity lookup found.
type ResolutionOutcome int

const (
	// ResolutionPermitted: token maps to an employee who currently holds
	// access permission.
	ResolutionPermitted ResolutionOutcome = iota

	// ResolutionUnresolved: no employee owns this token.
	ResolutionUnresolved

	// ResolutionForbidden: the employee exists but permission is off.
	ResolutionForbidden

	// ResolutionError: the lookup itself failed (store down, timeout).
	// Distinct from Unresolved so the deny is not mislabeled as an
	// unknown card when the store was simply unreachable.
	ResolutionError
)

// Resolution is the identity lookup result. Employee is populated for
// Permitted and Forbidden outcomes.
type Resolution struct {
	Outcome  ResolutionOutcome
	Employee store.EmployeeRecord
	Err      error
}

// Resolver looks up the employee owning a card token. Read-only, no
// side effects.
type Resolver struct {
	employees store.EmployeeStore
	timeout   time.Duration
}

func NewResolver(employees store.EmployeeStore, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Resolver{employees: employees, timeout: timeout}
}

// Resolve looks up the employee for token. The caller guarantees token
// is non-empty (the wire decoder rejects empty tokens before this runs).
func (r *Resolver) Resolve(ctx context.Context, token string) Resolution {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	emp, err := r.employees.FindByCardNumber(ctx, token)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return Resolution{Outcome: ResolutionUnresolved}
	case err != nil:
		return Resolution{Outcome: ResolutionError, Err: err}
	case !emp.AccessPermission:
		return Resolution{Outcome: ResolutionForbidden, Employee: emp}
	default:
		return Resolution{Outcome: ResolutionPermitted, Employee: emp}
	}
}
