package roster

import (
	"regexp"
	"strings"
)

// NoColumn marks a column that could not be detected.
const NoColumn = -1

// headerScanLimit bounds how many leading rows are inspected when looking
// for the header row.
const headerScanLimit = 10

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// headerKeywords identify a header row by substring match. Both English and
// Finnish labels appear in roster workbooks.
var headerKeywords = []string{"email", "e-mail", "name", "sähköposti", "nimi"}

// Columns holds the detected column indices for a roster sheet.
type Columns struct {
	Email int
	Name  int
}

// DetectColumns inspects data rows (header excluded) and returns the best
// email and name column indices. Either index is NoColumn when no column
// qualifies; that is a degraded result, not an error.
func DetectColumns(rows [][]string) Columns {
	email := detectEmailColumn(rows)
	return Columns{
		Email: email,
		Name:  detectNameColumn(rows, email),
	}
}

// detectEmailColumn returns the index of the column with the most cells that
// parse as syntactically valid email addresses. Ties break to the lowest
// index; a column needs at least one valid address to qualify.
func detectEmailColumn(rows [][]string) int {
	counts := map[int]int{}
	for _, row := range rows {
		for col, cell := range row {
			if IsValidEmail(strings.TrimSpace(cell)) {
				counts[col]++
			}
		}
	}
	return bestColumn(counts)
}

// detectNameColumn returns the index of the column (excluding the email
// column) with the most cells that split into exactly two whitespace-separated
// tokens, interpreted as first + last name.
func detectNameColumn(rows [][]string, emailCol int) int {
	counts := map[int]int{}
	for _, row := range rows {
		for col, cell := range row {
			if col == emailCol {
				continue
			}
			if first, last, ok := splitName(cell); ok && first != "" && last != "" {
				counts[col]++
			}
		}
	}
	return bestColumn(counts)
}

// bestColumn picks the column with the highest count, ties broken by lowest
// index. Returns NoColumn when counts is empty.
func bestColumn(counts map[int]int) int {
	best := NoColumn
	bestCount := 0
	for col, count := range counts {
		if count > bestCount || (count == bestCount && best != NoColumn && col < best) {
			best = col
			bestCount = count
		}
	}
	return best
}

// DataStart returns the index of the first data row. The row containing a
// known header keyword (within the first few rows) marks the header; rows at
// and above it are skipped. Without a recognizable header the first row is
// assumed to be the header, matching how roster workbooks are laid out.
func DataStart(rows [][]string) int {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			lower := strings.ToLower(cell)
			for _, kw := range headerKeywords {
				if strings.Contains(lower, kw) {
					return i + 1
				}
			}
		}
	}
	if len(rows) == 0 {
		return 0
	}
	return 1
}

// IsValidEmail reports whether s is a syntactically valid email address:
// local-part@domain with a dotted domain and no whitespace.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// splitName splits a trimmed cell into first and last name. Only cells with
// exactly two non-empty tokens qualify; anything else returns ok=false.
func splitName(cell string) (first, last string, ok bool) {
	parts := strings.Fields(cell)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
