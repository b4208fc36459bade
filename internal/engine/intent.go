// Package engine decides which directory operations a sync run must issue
// and applies them. The Reconciler compares the desired set from the roster
// against a directory snapshot and produces an ordered intent list; the
// Executor applies intents live or records them in dry-run mode.
package engine

import (
	"fmt"

	"github.com/avisko/rostersync/internal/directory"
	"github.com/avisko/rostersync/internal/roster"
)

// Kind classifies an intent.
type Kind string

const (
	KindCreate  Kind = "create"
	KindUpdate  Kind = "update"
	KindDisable Kind = "disable"
	KindNoOp    Kind = "noop"
)

// Intent is a single proposed change, produced fresh each run and never
// persisted. Create intents carry Desired; Update, Disable and NoOp intents
// carry Target (Update carries both).
type Intent struct {
	Kind    Kind
	Desired *roster.DesiredUser
	Target  *directory.User

	// Fields holds the changed fields for Update intents only.
	Fields directory.UpdateFields

	// Reason explains NoOp intents in reports ("up-to-date", "protected", ...).
	Reason string
}

// String renders the intent for dry-run reports and logs.
func (i Intent) String() string {
	switch i.Kind {
	case KindCreate:
		return fmt.Sprintf("create user %s (%s)", i.Desired.Username, orNone(i.Desired.Email))
	case KindUpdate:
		return fmt.Sprintf("update user %s (%s): %s", i.Target.Username, orNone(i.Target.Email), i.Fields)
	case KindDisable:
		return fmt.Sprintf("disable user %s (%s)", i.Target.Username, orNone(i.Target.Email))
	default:
		name, email := "", ""
		if i.Target != nil {
			name, email = i.Target.Username, i.Target.Email
		} else if i.Desired != nil {
			name, email = i.Desired.Username, i.Desired.Email
		}
		return fmt.Sprintf("no-op for user %s (%s): %s", name, orNone(email), i.Reason)
	}
}

func orNone(email string) string {
	if email == "" {
		return "no email"
	}
	return email
}
