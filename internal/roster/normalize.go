package roster

import "strings"

// skipMarker flags a resigned member anywhere in the row; the whole row is
// dropped, case-insensitively.
const skipMarker = "eronnut"

// ShouldSkipRow reports whether any cell in the row contains the resigned
// marker.
func ShouldSkipRow(row []string) bool {
	for _, cell := range row {
		if strings.Contains(strings.ToLower(cell), skipMarker) {
			return true
		}
	}
	return false
}

// NormalizeRow converts one raw data row into a DesiredUser using the
// detected columns. ok is false when the row is skipped.
//
// A row yielding neither email nor name is still normalized: the record
// carries only its generated username, and since it has no email it can
// never match an existing directory account.
func NormalizeRow(row []string, cols Columns) (DesiredUser, bool) {
	if ShouldSkipRow(row) {
		return DesiredUser{}, false
	}

	rec := DesiredUser{Username: newUsername()}

	if cols.Email != NoColumn && cols.Email < len(row) {
		email := strings.ToLower(strings.TrimSpace(row[cols.Email]))
		if IsValidEmail(email) {
			rec.Email = email
		}
	}

	if cols.Name != NoColumn && cols.Name < len(row) {
		if first, last, ok := splitName(row[cols.Name]); ok {
			rec.FirstName = first
			rec.LastName = last
		}
	}

	return rec, true
}

// Parse runs the full roster pipeline over raw sheet rows: header-row
// detection, column detection over the data rows, then per-row
// normalization. Returns the desired-user records in row order along with
// the detected columns (for logging).
func Parse(rows [][]string) ([]DesiredUser, Columns) {
	data := rows[DataStart(rows):]
	cols := DetectColumns(data)

	records := make([]DesiredUser, 0, len(data))
	for _, row := range data {
		if rec, ok := NormalizeRow(row, cols); ok {
			records = append(records, rec)
		}
	}
	return records, cols
}

// Load reads all rows from src and parses them.
func Load(src RowSource) ([]DesiredUser, Columns, error) {
	rows, err := src.Rows()
	if err != nil {
		return nil, Columns{}, err
	}
	records, cols := Parse(rows)
	return records, cols, nil
}
