package engine

import (
	"testing"

	"github.com/avisko/rostersync/internal/directory"
	"github.com/avisko/rostersync/internal/roster"
)

func snapshotOf(users ...directory.User) *directory.Snapshot {
	return directory.NewSnapshot(users)
}

func kinds(intents []Intent) []Kind {
	out := make([]Kind, len(intents))
	for i, intent := range intents {
		out[i] = intent.Kind
	}
	return out
}

func TestReconcile_UpdateCarriesOnlyChangedFields(t *testing.T) {
	desired := []roster.DesiredUser{
		{Username: "u-1", Email: "a@b.com", FirstName: "A", LastName: "B"},
	}
	snap := snapshotOf(directory.User{
		ID: "id-1", Username: "old", Email: "a@b.com",
		FirstName: "A", LastName: "X", Enabled: true,
	})

	intents := NewReconciler(NewProtectedSet(nil)).Reconcile(desired, snap)

	if len(intents) != 1 {
		t.Fatalf("len(intents) = %d, want 1", len(intents))
	}
	intent := intents[0]
	if intent.Kind != KindUpdate {
		t.Fatalf("Kind = %q, want %q", intent.Kind, KindUpdate)
	}
	if intent.Fields.FirstName != nil {
		t.Errorf("Fields.FirstName = %q, want nil (unchanged)", *intent.Fields.FirstName)
	}
	if intent.Fields.LastName == nil || *intent.Fields.LastName != "B" {
		t.Errorf("Fields.LastName = %v, want B", intent.Fields.LastName)
	}
	if intent.Fields.Enabled != nil {
		t.Errorf("Fields.Enabled = %v, want nil (already enabled)", *intent.Fields.Enabled)
	}
}

func TestReconcile_IdenticalAccountIsNoOp(t *testing.T) {
	desired := []roster.DesiredUser{
		{Username: "u-1", Email: "a@b.com", FirstName: "A", LastName: "B"},
	}
	snap := snapshotOf(directory.User{
		ID: "id-1", Email: "a@b.com", FirstName: "A", LastName: "B", Enabled: true,
	})

	intents := NewReconciler(NewProtectedSet(nil)).Reconcile(desired, snap)

	if len(intents) != 1 || intents[0].Kind != KindNoOp {
		t.Fatalf("intents = %v, want a single NoOp", kinds(intents))
	}
	if intents[0].Reason != "up-to-date" {
		t.Errorf("Reason = %q, want %q", intents[0].Reason, "up-to-date")
	}
}

func TestReconcile_MatchedDisabledAccountIsReenabled(t *testing.T) {
	desired := []roster.DesiredUser{
		{Username: "u-1", Email: "a@b.com", FirstName: "A", LastName: "B"},
	}
	snap := snapshotOf(directory.User{
		ID: "id-1", Email: "a@b.com", FirstName: "A", LastName: "B", Enabled: false,
	})

	intents := NewReconciler(NewProtectedSet(nil)).Reconcile(desired, snap)

	if len(intents) != 1 || intents[0].Kind != KindUpdate {
		t.Fatalf("intents = %v, want a single Update", kinds(intents))
	}
	if intents[0].Fields.Enabled == nil || !*intents[0].Fields.Enabled {
		t.Errorf("Fields.Enabled = %v, want true", intents[0].Fields.Enabled)
	}
}

func TestReconcile_NoEmailIsAlwaysCreate(t *testing.T) {
	// Even a perfect name match cannot bind a record without an email.
	desired := []roster.DesiredUser{
		{Username: "u-1", FirstName: "Jane", LastName: "Doe"},
	}
	snap := snapshotOf(directory.User{
		ID: "id-1", Email: "jane@b.com", FirstName: "Jane", LastName: "Doe", Enabled: true,
	})

	intents := NewReconciler(NewProtectedSet(nil)).Reconcile(desired, snap)

	var creates int
	for _, intent := range intents {
		switch intent.Kind {
		case KindCreate:
			creates++
		case KindUpdate:
			t.Errorf("unexpected Update for email-less record")
		}
	}
	if creates != 1 {
		t.Errorf("creates = %d, want 1", creates)
	}
}

func TestReconcile_MatchIsCaseInsensitive(t *testing.T) {
	desired := []roster.DesiredUser{
		{Username: "u-1", Email: "jane@example.com"},
	}
	snap := snapshotOf(directory.User{
		ID: "id-1", Email: "Jane@Example.COM", Enabled: true,
	})

	intents := NewReconciler(NewProtectedSet(nil)).Reconcile(desired, snap)

	for _, intent := range intents {
		if intent.Kind == KindCreate || intent.Kind == KindDisable {
			t.Errorf("got %q intent, emails differing only in case must match", intent.Kind)
		}
	}
}

func TestReconcile_AbsentAccountIsDisabled(t *testing.T) {
	snap := snapshotOf(directory.User{
		ID: "id-1", Username: "zeta", Email: "z@z.com", Enabled: true,
	})

	intents := NewReconciler(NewProtectedSet(nil)).Reconcile(nil, snap)

	if len(intents) != 1 || intents[0].Kind != KindDisable {
		t.Fatalf("intents = %v, want a single Disable", kinds(intents))
	}
	if intents[0].Target.ID != "id-1" {
		t.Errorf("Target.ID = %q, want %q", intents[0].Target.ID, "id-1")
	}
}

func TestReconcile_AdminUsernameIsNeverDisabled(t *testing.T) {
	snap := snapshotOf(directory.User{
		ID: "id-1", Username: "admin", Email: "root@example.com", Enabled: true,
	})

	intents := NewReconciler(NewProtectedSet(nil)).Reconcile(nil, snap)

	if len(intents) != 1 || intents[0].Kind != KindNoOp {
		t.Fatalf("intents = %v, want a single NoOp", kinds(intents))
	}
	if intents[0].Reason != "protected" {
		t.Errorf("Reason = %q, want %q", intents[0].Reason, "protected")
	}
}

func TestReconcile_ProtectedEmailIsNeverDisabled(t *testing.T) {
	snap := snapshotOf(directory.User{
		ID: "id-1", Username: "board", Email: "Board@Example.com", Enabled: true,
	})

	protected := NewProtectedSet([]string{"board@example.com"})
	intents := NewReconciler(protected).Reconcile(nil, snap)

	if len(intents) != 1 || intents[0].Kind != KindNoOp {
		t.Fatalf("intents = %v, want a single NoOp", kinds(intents))
	}
}

func TestReconcile_AlreadyDisabledAccountIsNoOp(t *testing.T) {
	snap := snapshotOf(directory.User{
		ID: "id-1", Username: "gone", Email: "gone@example.com", Enabled: false,
	})

	intents := NewReconciler(NewProtectedSet(nil)).Reconcile(nil, snap)

	if len(intents) != 1 || intents[0].Kind != KindNoOp {
		t.Fatalf("intents = %v, want a single NoOp", kinds(intents))
	}
	if intents[0].Reason != "already disabled" {
		t.Errorf("Reason = %q, want %q", intents[0].Reason, "already disabled")
	}
}

func TestReconcile_EmaillessDirectoryAccountIsLeftAlone(t *testing.T) {
	snap := snapshotOf(directory.User{
		ID: "id-1", Username: "service-account", Enabled: true,
	})

	intents := NewReconciler(NewProtectedSet(nil)).Reconcile(nil, snap)

	if len(intents) != 1 || intents[0].Kind != KindNoOp {
		t.Fatalf("intents = %v, want a single NoOp", kinds(intents))
	}
}

func TestReconcile_DuplicateEmailLastOccurrenceWins(t *testing.T) {
	desired := []roster.DesiredUser{
		{Username: "u-1", Email: "a@b.com", FirstName: "Jane", LastName: "Old"},
		{Username: "u-2", Email: "a@b.com", FirstName: "Jane", LastName: "New"},
	}
	snap := snapshotOf(directory.User{
		ID: "id-1", Email: "a@b.com", FirstName: "Jane", LastName: "Stale", Enabled: true,
	})

	intents := NewReconciler(NewProtectedSet(nil)).Reconcile(desired, snap)

	if len(intents) != 1 {
		t.Fatalf("len(intents) = %d, want 1 (duplicates must collapse)", len(intents))
	}
	if intents[0].Kind != KindUpdate {
		t.Fatalf("Kind = %q, want %q", intents[0].Kind, KindUpdate)
	}
	if intents[0].Fields.LastName == nil || *intents[0].Fields.LastName != "New" {
		t.Errorf("Fields.LastName = %v, want New (last occurrence wins)", intents[0].Fields.LastName)
	}
}

func TestReconcile_IntentOrdering(t *testing.T) {
	desired := []roster.DesiredUser{
		{Username: "u-upd", Email: "upd@example.com", FirstName: "U", LastName: "Changed"},
		{Username: "u-new", Email: "new@example.com"},
		{Username: "u-same", Email: "same@example.com", FirstName: "S", LastName: "Same"},
	}
	snap := snapshotOf(
		directory.User{ID: "id-gone", Username: "gone", Email: "gone@example.com", Enabled: true},
		directory.User{ID: "id-upd", Email: "upd@example.com", FirstName: "U", LastName: "Old", Enabled: true},
		directory.User{ID: "id-same", Email: "same@example.com", FirstName: "S", LastName: "Same", Enabled: true},
	)

	intents := NewReconciler(NewProtectedSet(nil)).Reconcile(desired, snap)

	want := []Kind{KindCreate, KindUpdate, KindDisable, KindNoOp}
	got := kinds(intents)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kinds[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReconcile_DisableMissingOff(t *testing.T) {
	snap := snapshotOf(directory.User{
		ID: "id-1", Username: "other", Email: "other@example.com", Enabled: true,
	})

	r := NewReconciler(NewProtectedSet(nil))
	r.DisableMissing = false
	intents := r.Reconcile(nil, snap)

	if len(intents) != 0 {
		t.Errorf("intents = %v, want none when the disable pass is off", kinds(intents))
	}
}
