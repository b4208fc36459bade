package roster

import "testing"

func TestDetectColumns_EmailByMatchCount(t *testing.T) {
	rows := [][]string{
		{"x", "a@b.com"},
		{"y", "bad"},
		{"z", "c@d.com"},
	}

	cols := DetectColumns(rows)
	if cols.Email != 1 {
		t.Errorf("Email = %d, want %d", cols.Email, 1)
	}
}

func TestDetectColumns_NoEmailColumn(t *testing.T) {
	rows := [][]string{
		{"alpha", "beta"},
		{"gamma", "delta"},
	}

	cols := DetectColumns(rows)
	if cols.Email != NoColumn {
		t.Errorf("Email = %d, want NoColumn", cols.Email)
	}
}

func TestDetectColumns_EmailTieBreaksToLowestIndex(t *testing.T) {
	rows := [][]string{
		{"a@b.com", "c@d.com"},
		{"e@f.com", "g@h.com"},
	}

	cols := DetectColumns(rows)
	if cols.Email != 0 {
		t.Errorf("Email = %d, want %d (tie should break to lowest index)", cols.Email, 0)
	}
}

func TestDetectColumns_NameByTwoTokenCount(t *testing.T) {
	rows := [][]string{
		{"Jane Doe"},
		{"John Smith"},
		{"notaname"},
	}

	cols := DetectColumns(rows)
	if cols.Name != 0 {
		t.Errorf("Name = %d, want %d", cols.Name, 0)
	}
}

func TestDetectColumns_NameExcludesEmailColumn(t *testing.T) {
	rows := [][]string{
		{"a@b.com", "Jane Doe", "Helsinki"},
		{"c@d.com", "John Smith", "Tampere"},
	}

	cols := DetectColumns(rows)
	if cols.Email != 0 {
		t.Fatalf("Email = %d, want %d", cols.Email, 0)
	}
	if cols.Name != 1 {
		t.Errorf("Name = %d, want %d", cols.Name, 1)
	}
}

func TestDetectColumns_ThreeTokenCellsDoNotCount(t *testing.T) {
	rows := [][]string{
		{"Anna Maria Virtanen", "Jane Doe"},
		{"Jukka Pekka Korhonen", "John Smith"},
	}

	cols := DetectColumns(rows)
	if cols.Name != 1 {
		t.Errorf("Name = %d, want %d (three-token cells must not count)", cols.Name, 1)
	}
}

func TestDetectColumns_ToleratesEmptyAndRaggedRows(t *testing.T) {
	rows := [][]string{
		{},
		{"", ""},
		{"Jane Doe", "a@b.com"},
		{"John Smith"},
	}

	cols := DetectColumns(rows)
	if cols.Email != 1 {
		t.Errorf("Email = %d, want %d", cols.Email, 1)
	}
	if cols.Name != 0 {
		t.Errorf("Name = %d, want %d", cols.Name, 0)
	}
}

func TestDataStart(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want int
	}{
		{
			name: "header keyword in first row",
			rows: [][]string{{"Name", "Email"}, {"Jane Doe", "a@b.com"}},
			want: 1,
		},
		{
			name: "finnish header after preamble",
			rows: [][]string{{"Jäsenluettelo 2024"}, {"Nimi", "Sähköposti"}, {"Jane Doe", "a@b.com"}},
			want: 2,
		},
		{
			name: "no recognizable header defaults to one",
			rows: [][]string{{"x", "y"}, {"Jane Doe", "a@b.com"}},
			want: 1,
		},
		{
			name: "empty sheet",
			rows: nil,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DataStart(tt.rows); got != tt.want {
				t.Errorf("DataStart() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"jane.doe@example.com", true},
		{"j+tag@sub.example.fi", true},
		{"no-at-sign", false},
		{"missing@dot", false},
		{"spa ce@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.input); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
