package engine

import (
	"strings"

	"github.com/avisko/rostersync/internal/directory"
	"github.com/avisko/rostersync/internal/roster"
)

// adminUsername is protected regardless of its email address.
const adminUsername = "admin"

// ProtectedSet holds the identities a run must never disable: a fixed set of
// email addresses plus the literal username "admin".
type ProtectedSet struct {
	emails map[string]struct{}
}

// NewProtectedSet builds a protection policy from email addresses,
// case-insensitively.
func NewProtectedSet(emails []string) ProtectedSet {
	p := ProtectedSet{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		p.emails[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return p
}

// Contains reports whether the account is protected.
func (p ProtectedSet) Contains(u directory.User) bool {
	if u.Username == adminUsername {
		return true
	}
	if u.Email == "" {
		return false
	}
	_, ok := p.emails[strings.ToLower(u.Email)]
	return ok
}

// Reconciler computes the intent list that brings the directory into
// correspondence with the desired set.
type Reconciler struct {
	protected ProtectedSet

	// DisableMissing controls the pass that disables directory accounts
	// absent from the desired set. Single-address runs switch it off so
	// that syncing one user cannot disable everyone else.
	DisableMissing bool
}

// NewReconciler returns a Reconciler with the given protection policy.
func NewReconciler(protected ProtectedSet) *Reconciler {
	return &Reconciler{protected: protected, DisableMissing: true}
}

// Reconcile compares desired records against the snapshot and returns the
// complete intent list: all Creates, then Updates, then Disables, then
// NoOps, stable within each group. Intents target disjoint accounts, so the
// ordering is a presentation convention rather than a correctness
// requirement.
//
// Desired records sharing an email are deduplicated last-occurrence-wins
// before matching; records without an email are all kept and are
// unconditionally Creates.
func (r *Reconciler) Reconcile(desired []roster.DesiredUser, snap *directory.Snapshot) []Intent {
	desired = dedupeByEmail(desired)

	var creates, updates, disables, noops []Intent

	desiredEmails := make(map[string]struct{}, len(desired))
	for i := range desired {
		rec := &desired[i]
		if rec.Email == "" {
			creates = append(creates, Intent{Kind: KindCreate, Desired: rec})
			continue
		}
		desiredEmails[strings.ToLower(rec.Email)] = struct{}{}

		existing, ok := snap.ByEmail(rec.Email)
		if !ok {
			creates = append(creates, Intent{Kind: KindCreate, Desired: rec})
			continue
		}

		fields := diffUser(rec, existing)
		if fields.IsZero() {
			noops = append(noops, Intent{Kind: KindNoOp, Desired: rec, Target: &existing, Reason: "up-to-date"})
			continue
		}
		updates = append(updates, Intent{Kind: KindUpdate, Desired: rec, Target: &existing, Fields: fields})
	}

	if r.DisableMissing {
		for _, u := range snap.Users() {
			u := u
			if u.Email != "" {
				if _, ok := desiredEmails[strings.ToLower(u.Email)]; ok {
					continue
				}
			}
			switch {
			case u.Email == "":
				// An account without an email can never correspond to a
				// roster row, so it is left alone.
				noops = append(noops, Intent{Kind: KindNoOp, Target: &u, Reason: "no email"})
			case !u.Enabled:
				noops = append(noops, Intent{Kind: KindNoOp, Target: &u, Reason: "already disabled"})
			case r.protected.Contains(u):
				noops = append(noops, Intent{Kind: KindNoOp, Target: &u, Reason: "protected"})
			default:
				disables = append(disables, Intent{Kind: KindDisable, Target: &u})
			}
		}
	}

	intents := make([]Intent, 0, len(creates)+len(updates)+len(disables)+len(noops))
	intents = append(intents, creates...)
	intents = append(intents, updates...)
	intents = append(intents, disables...)
	intents = append(intents, noops...)
	return intents
}

// diffUser returns the fields of the matched account that must change to
// reflect the desired record. Only differing name fields are carried; a
// desired user matched to a disabled account is re-enabled through the same
// update, since a roster member is by definition an active one.
func diffUser(rec *roster.DesiredUser, existing directory.User) directory.UpdateFields {
	var fields directory.UpdateFields
	if rec.FirstName != "" && rec.FirstName != existing.FirstName {
		fields.FirstName = &rec.FirstName
	}
	if rec.LastName != "" && rec.LastName != existing.LastName {
		fields.LastName = &rec.LastName
	}
	if !existing.Enabled {
		enabled := true
		fields.Enabled = &enabled
	}
	return fields
}

// dedupeByEmail keeps the last occurrence of each email, preserving row
// order among the survivors. Records without an email pass through.
func dedupeByEmail(desired []roster.DesiredUser) []roster.DesiredUser {
	last := make(map[string]int, len(desired))
	for i, rec := range desired {
		if rec.Email != "" {
			last[rec.Email] = i
		}
	}

	result := make([]roster.DesiredUser, 0, len(desired))
	for i, rec := range desired {
		if rec.Email != "" && last[rec.Email] != i {
			continue
		}
		result = append(result, rec)
	}
	return result
}
