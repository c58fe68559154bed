// Package report builds the downloadable tabular exports of a school: the
// student register, attendance, fee balances and staff performance.
package report

import (
	"fmt"
	"strings"
)

type Kind string

const (
	Students         Kind = "students"
	Attendance       Kind = "attendance"
	FeesSummary      Kind = "fees-summary"
	StaffPerformance Kind = "staff-performance"
)

// Kinds lists every report in display order.
var Kinds = []Kind{Students, Attendance, FeesSummary, StaffPerformance}

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown report %q", s)
}

// ParseFormat defaults to CSV when s is empty.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", CSV:
		return CSV, nil
	case XLSX:
		return XLSX, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// Filename is the fixed download name of a report, e.g. "fees-summary.csv".
func (k Kind) Filename(f Format) string {
	return string(k) + "." + string(f)
}

// Title is the human name used for spreadsheet tabs.
func (k Kind) Title() string {
	switch k {
	case Students:
		return "Students"
	case Attendance:
		return "Attendance"
	case FeesSummary:
		return "Fees Summary"
	case StaffPerformance:
		return "Staff Performance"
	default:
		return string(k)
	}
}

func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Table is a report ready to be written: a header row and data rows of
// preformatted cells.
type Table struct {
	Kind   Kind
	Header []string
	Rows   [][]string
}
