// Package excel reads roster rows from .xlsx workbooks.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Source reads the first worksheet of an Excel workbook. It implements
// roster.RowSource.
type Source struct {
	path string
}

// NewSource returns a Source for the workbook at path. The file is opened
// lazily on Rows.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Rows returns every row of the first worksheet as cell values. Trailing
// empty cells may be absent from a row; callers must tolerate ragged rows.
func (s *Source) Rows() ([][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no worksheets", s.path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
