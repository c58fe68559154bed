package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Invoice EntryType = "invoice"
	Payment EntryType = "payment"
)

const DateLayout = "2006-01-02"

type (
	EntryType string

	Student struct {
		ID           string `json:"id"`
		AdmissionNo  string `json:"admissionNo"`
		FirstName    string `json:"firstName"`
		LastName     string `json:"lastName"`
		Gender       string `json:"gender"`
		DOB          string `json:"dob"`
		ClassName    string `json:"className"`
		GuardianName string `json:"guardianName"`
		Contact      string `json:"contact"`
		DateAdmitted string `json:"dateAdmitted"`
	}

	Staff struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Role       string `json:"role"`
		Department string `json:"department"`
		Contact    string `json:"contact"`
	}

	// LedgerItem is one fee entry against a student. Items are never edited
	// after creation, only deleted.
	LedgerItem struct {
		ID          string    `json:"id"`
		Date        string    `json:"date"`
		Amount      Money     `json:"amount"`
		Description string    `json:"description"`
		Type        EntryType `json:"type"`
	}

	StudentLedger struct {
		Items []LedgerItem `json:"items"`
	}

	AttendanceRecord struct {
		StudentID string `json:"studentId"`
		Present   bool   `json:"present"`
	}

	StaffAttendanceEntry struct {
		StaffID string `json:"staffId"`
		Present bool   `json:"present"`
	}

	StaffPerformance struct {
		Rating    int       `json:"rating"`
		Notes     string    `json:"notes,omitempty"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	Expense struct {
		ID       string `json:"id"`
		Date     string `json:"date"`
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
		Notes    string `json:"notes,omitempty"`
	}

	TimetableCell struct {
		Subject string `json:"subject"`
		Teacher string `json:"teacher,omitempty"`
	}

	// Timetable maps a day of the week to its periods.
	Timetable map[string][]TimetableCell

	Branding struct {
		SchoolName string `json:"schoolName"`
		Subdomain  string `json:"subdomain"`
		Domain     string `json:"domain"`
		LogoURL    string `json:"logoUrl,omitempty"`
		Primary    string `json:"primary"`
		Secondary  string `json:"secondary"`
		Campus     string `json:"campus,omitempty"`
	}
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidRating = errors.New("invalid rating")
	ErrInvalidEntry  = errors.New("invalid ledger entry type")
	ErrUnknownClass  = errors.New("unknown class")
	ErrInvalidSlot   = errors.New("invalid timetable slot")
)

// FullName joins first and last name the way reports display students.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

func (t EntryType) Valid() bool {
	return t == Invoice || t == Payment
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form. Keeping
// every stored date in this layout makes string order equal calendar order.
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func ValidateDate(s string) error {
	if !ValidDate(strings.TrimSpace(s)) {
		return ErrInvalidDate
	}
	return nil
}

func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

func (li LedgerItem) Validate() error {
	if err := ValidateDate(li.Date); err != nil {
		return err
	}
	if li.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !li.Type.Valid() {
		return ErrInvalidEntry
	}
	return nil
}

// Month returns the year-month prefix of the expense date.
func (e Expense) Month() string {
	return monthOf(e.Date)
}
