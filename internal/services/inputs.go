package services

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"schooldesk/internal/core"
)

type (
	StudentInput struct {
		AdmissionNo  string `json:"admissionNo" validate:"required,max=32"`
		FirstName    string `json:"firstName" validate:"required,max=80"`
		LastName     string `json:"lastName" validate:"required,max=80"`
		Gender       string `json:"gender" validate:"required,gender"`
		DOB          string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
		ClassName    string `json:"className" validate:"required,schoolclass"`
		GuardianName string `json:"guardianName" validate:"max=120"`
		Contact      string `json:"contact" validate:"max=64"`
		DateAdmitted string `json:"dateAdmitted" validate:"omitempty,datetime=2006-01-02"`
	}

	StaffInput struct {
		Name       string `json:"name" validate:"required,max=120"`
		Role       string `json:"role" validate:"required,max=80"`
		Department string `json:"department" validate:"max=80"`
		Contact    string `json:"contact" validate:"max=64"`
	}

	LedgerInput struct {
		Date        string         `json:"date" validate:"required,datetime=2006-01-02"`
		Amount      core.Money     `json:"amount"`
		Description string         `json:"description" validate:"max=200"`
		Type        core.EntryType `json:"type" validate:"required,oneof=invoice payment"`
	}

	ExpenseInput struct {
		Date     string     `json:"date" validate:"required,datetime=2006-01-02"`
		Category string     `json:"category" validate:"required,category"`
		Amount   core.Money `json:"amount"`
		Notes    string     `json:"notes" validate:"max=500"`
	}

	RatingInput struct {
		Rating int    `json:"rating" validate:"min=1,max=5"`
		Notes  string `json:"notes" validate:"max=500"`
	}

	TimetableCellInput struct {
		Day     string `json:"day" validate:"required,weekday"`
		Period  int    `json:"period" validate:"min=0,max=5"`
		Subject string `json:"subject" validate:"max=80"`
		Teacher string `json:"teacher" validate:"max=120"`
	}
)

// ValidationError lists the failing input fields by their JSON name, mapped
// to the rule that failed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, f := range names {
		parts[i] = fmt.Sprintf("%s (%s)", f, e.Fields[f])
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "schoolclass", core.IsClass)
	mustRegister(v, "category", core.IsCategory)
	mustRegister(v, "weekday", core.IsDay)
	mustRegister(v, "gender", core.IsGender)
	return v
}

func mustRegister(v *validator.Validate, tag string, ok func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return ok(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// check runs struct validation and converts failures into a ValidationError.
func check(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate input: %w", err)
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}

func trimStudent(in StudentInput) StudentInput {
	in.AdmissionNo = strings.TrimSpace(in.AdmissionNo)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.GuardianName = strings.TrimSpace(in.GuardianName)
	in.Contact = strings.TrimSpace(in.Contact)
	return in
}

func trimStaff(in StaffInput) StaffInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.TrimSpace(in.Role)
	in.Department = strings.TrimSpace(in.Department)
	in.Contact = strings.TrimSpace(in.Contact)
	return in
}
