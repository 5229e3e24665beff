package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookup methods when no row matches.
// Callers must distinguish it from infrastructure failures: an unknown
// card is a deny with its own reason, a broken store is a fail-closed
// lookup error.
var ErrNotFound = errors.New("not found")

// EmployeeRecord is the read-only snapshot of an employee the decision
// path needs. The employee table itself is owned by the dashboard CRUD
// screens; this subsystem never writes it.
type EmployeeRecord struct {
	ID               string
	FirstName        string
	LastName         string
	CardNumber       string
	AccessPermission bool
	PhotoURL         string
}

// DisplayName is the denormalized name captured into readings.
func (e EmployeeRecord) DisplayName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

type EmployeeStore interface {
	// FindByCardNumber returns the employee owning the given card token,
	// or ErrNotFound.
	FindByCardNumber(ctx context.Context, cardNumber string) (EmployeeRecord, error)
}
