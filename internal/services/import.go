package services

import (
	"context"
	"fmt"
	"strings"

	"schooldesk/internal/core"
	"schooldesk/internal/records"
)

type (
	ImportResult struct {
		Imported int        `json:"imported"`
		Failed   []RowError `json:"failed,omitempty"`
	}

	RowError struct {
		Row   int    `json:"row"`
		Error string `json:"error"`
	}
)

// ImportStudents adds one student per row. Columns follow the students
// report: admission no, first name, last name, gender, DOB, class,
// guardian, contact, date admitted. A leading header row is skipped. Rows
// that fail validation are reported and the rest are saved in one write.
func (s *School) ImportStudents(ctx context.Context, rows [][]string) (ImportResult, error) {
	var res ImportResult
	var added []core.Student
	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "Admission No") {
			continue
		}
		if blankRow(row) {
			continue
		}
		in := trimStudent(studentInputFromRow(row))
		if err := check(s.validate, in); err != nil {
			res.Failed = append(res.Failed, RowError{Row: i + 1, Error: err.Error()})
			continue
		}
		added = append(added, studentFromInput(s.newID(), in))
	}
	if len(added) == 0 {
		return res, nil
	}

	list, err := s.ListStudents(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	list = append(list, added...)
	if err := s.store.Save(ctx, records.KeyStudents, list); err != nil {
		return ImportResult{}, fmt.Errorf("save students: %w", err)
	}
	res.Imported = len(added)
	s.logger.InfoContext(ctx, "Students imported", "imported", res.Imported, "failed", len(res.Failed))
	return res, nil
}

func studentInputFromRow(row []string) StudentInput {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return StudentInput{
		AdmissionNo:  col(0),
		FirstName:    col(1),
		LastName:     col(2),
		Gender:       col(3),
		DOB:          col(4),
		ClassName:    col(5),
		GuardianName: col(6),
		Contact:      col(7),
		DateAdmitted: col(8),
	}
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
