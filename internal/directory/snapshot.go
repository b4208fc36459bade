package directory

import "strings"

// Snapshot is an immutable view of the directory population, taken once at
// the start of a run. No intent refreshes it: a run is consistent with the
// directory at snapshot time, not at the moment each intent executes.
type Snapshot struct {
	users   []User
	byEmail map[string]User
}

// NewSnapshot indexes the given accounts by lowercase email. Accounts
// without an email stay in the population but are unreachable by email
// lookup.
func NewSnapshot(users []User) *Snapshot {
	s := &Snapshot{
		users:   users,
		byEmail: make(map[string]User, len(users)),
	}
	for _, u := range users {
		if u.Email != "" {
			s.byEmail[strings.ToLower(u.Email)] = u
		}
	}
	return s
}

// Users returns the full population in listing order.
func (s *Snapshot) Users() []User {
	return s.users
}

// ByEmail looks up an account by email, case-insensitively.
func (s *Snapshot) ByEmail(email string) (User, bool) {
	u, ok := s.byEmail[strings.ToLower(email)]
	return u, ok
}

// Len returns the population size.
func (s *Snapshot) Len() int {
	return len(s.users)
}
