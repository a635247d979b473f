package courseimport

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet header strings. Columns are matched by header name, not position, so
// a reordered sheet still imports.
const (
	HeaderCode         = "Course Code"
	HeaderTitle        = "Course Title"
	HeaderRoom         = "Room"
	HeaderSemester     = "Semester"
	HeaderAcademicYear = "Academic Year"
	HeaderClassNumber  = "Class Number"
	HeaderSection      = "Section"
	HeaderStatus       = "Status"
)

// SheetHeaders lists the required headers in template order.
var SheetHeaders = []string{
	HeaderCode, HeaderTitle, HeaderRoom, HeaderSemester,
	HeaderAcademicYear, HeaderClassNumber, HeaderSection, HeaderStatus,
}

// ErrEmptySheet is returned when the workbook has no data rows.
var ErrEmptySheet = errors.New("sheet contains no data rows")

// ReadSheet parses an uploaded .xlsx workbook into raw rows. The first sheet
// is used; its first row must contain all eight headers (any order,
// case-insensitive). Fully blank rows are skipped; Line numbers count data
// rows from 1.
func ReadSheet(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(cells) < 2 {
		return nil, ErrEmptySheet
	}

	columns, err := mapHeaders(cells[0])
	if err != nil {
		return nil, err
	}

	var rows []Row
	line := 0
	for _, raw := range cells[1:] {
		if blankRow(raw) {
			continue
		}
		line++
		rows = append(rows, Row{
			Line:         line,
			Code:         cellAt(raw, columns[HeaderCode]),
			Title:        cellAt(raw, columns[HeaderTitle]),
			Room:         cellAt(raw, columns[HeaderRoom]),
			Semester:     cellAt(raw, columns[HeaderSemester]),
			AcademicYear: cellAt(raw, columns[HeaderAcademicYear]),
			ClassNumber:  cellAt(raw, columns[HeaderClassNumber]),
			Section:      cellAt(raw, columns[HeaderSection]),
			Status:       cellAt(raw, columns[HeaderStatus]),
		})
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

func mapHeaders(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(SheetHeaders))
	for idx, cell := range header {
		name := strings.TrimSpace(cell)
		for _, want := range SheetHeaders {
			if strings.EqualFold(name, want) {
				columns[want] = idx
			}
		}
	}

	var missing []string
	for _, want := range SheetHeaders {
		if _, ok := columns[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("sheet is missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
