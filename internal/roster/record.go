// Package roster turns raw spreadsheet rows into desired-user records.
//
// The roster has no fixed schema: nobody controls the workbook's layout, so
// the package detects the email and name columns heuristically by scanning
// cell contents, never by trusting header text. Rows marked with "eronnut"
// (a resigned member) are dropped entirely.
package roster

import "github.com/google/uuid"

// DesiredUser is one roster row in canonical form. Optional fields are
// empty strings when absent.
//
// A record without an email can never be matched to an existing directory
// account; it is always treated as new.
type DesiredUser struct {
	// Username is generated at normalization time and never derived
	// from spreadsheet content.
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// newUsername returns a fresh collision-resistant identifier. UUIDv4 makes
// usernames unique across the realm's lifetime without any central counter.
func newUsername() string {
	return uuid.NewString()
}

// RowSource yields the raw rows of a roster document. Implementations read
// spreadsheets or other tabular inputs; a read failure is fatal to the run.
type RowSource interface {
	Rows() ([][]string, error)
}
