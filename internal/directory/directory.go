// Package directory defines the identity-directory boundary: the account
// model, the operations the reconciliation engine is allowed to perform,
// and the point-in-time snapshot the engine compares against.
package directory

import (
	"context"
	"fmt"
	"strings"
)

// User is an account as the external directory reports it. The directory
// owns and mutates these; the engine only ever reads them.
type User struct {
	ID            string
	Username      string
	Email         string
	FirstName     string
	LastName      string
	Enabled       bool
	EmailVerified bool
}

// UpdateFields carries a partial account update. Nil fields are left
// untouched by the directory.
type UpdateFields struct {
	FirstName *string
	LastName  *string
	Enabled   *bool
}

// IsZero reports whether no field is set.
func (f UpdateFields) IsZero() bool {
	return f.FirstName == nil && f.LastName == nil && f.Enabled == nil
}

// String renders the changed fields for reports and logs,
// e.g. "lastName → Doe, enabled → true".
func (f UpdateFields) String() string {
	var parts []string
	if f.FirstName != nil {
		parts = append(parts, "firstName → "+*f.FirstName)
	}
	if f.LastName != nil {
		parts = append(parts, "lastName → "+*f.LastName)
	}
	if f.Enabled != nil {
		parts = append(parts, fmt.Sprintf("enabled → %t", *f.Enabled))
	}
	return strings.Join(parts, ", ")
}

// Directory is the set of operations the engine may perform against the
// external identity directory. Each call can fail independently with *Error.
type Directory interface {
	// ListUsers returns every account in the realm.
	ListUsers(ctx context.Context) ([]User, error)

	// CreateUser creates an account and returns its directory-assigned id.
	// Optional fields are empty strings.
	CreateUser(ctx context.Context, username, email, firstName, lastName string) (string, error)

	// UpdateUser applies a partial update to an existing account.
	UpdateUser(ctx context.Context, id string, fields UpdateFields) error

	// SetEnabled enables or disables an account.
	SetEnabled(ctx context.Context, id string, enabled bool) error
}

// Error is a failure of a single directory call. It is isolated to the
// intent being applied; the run continues with the remaining intents.
type Error struct {
	Method string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }
