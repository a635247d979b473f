package courseimport

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/coursedesk/coursedesk-backend/internal/model"
)

const exportSheet = "Courses"

// WriteCourses builds an .xlsx workbook listing the given courses, using the
// same headers the importer expects so an exported sheet can be re-imported.
func WriteCourses(courses []model.Course) (*excelize.File, error) {
	f, err := newWorkbook()
	if err != nil {
		return nil, err
	}

	for i, c := range courses {
		values := []interface{}{
			c.Code, c.Title, c.Room, c.Semester,
			c.AcademicYear, strconv.FormatInt(c.ClassNumber, 10), c.Section, string(c.Status),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return f, nil
}

// Template builds a blank import workbook with the headers and one example
// row showing the expected field formats.
func Template() (*excelize.File, error) {
	f, err := newWorkbook()
	if err != nil {
		return nil, err
	}

	example := []interface{}{
		"CS101", "Introduction to Computing", "A101", model.SemesterFirst,
		"2025-2026", "1", "A", string(model.CourseStatusActive),
	}
	if err := f.SetSheetRow(exportSheet, "A2", &example); err != nil {
		return nil, fmt.Errorf("write example row: %w", err)
	}
	return f, nil
}

func newWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(SheetHeaders))
	for i, h := range SheetHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return f, nil
}
