package core

// PeriodCount is the number of teaching periods in each timetable day.
const PeriodCount = 6

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3
)

var Classes = []string{
	"Grade 1 - A",
	"Grade 1 - B",
	"Grade 2 - A",
	"Grade 3 - A",
	"Grade 4 - A",
	"Grade 5 - A",
	"Grade 6 - A",
	"Grade 7 - A",
	"Form 1 - A",
}

var Days = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

var ExpenseCategories = []string{
	"Salaries",
	"Utilities",
	"Maintenance",
	"Supplies",
	"Transport",
	"Other",
}

var Genders = []string{"Male", "Female", "Other"}

func IsClass(name string) bool    { return contains(Classes, name) }
func IsDay(day string) bool       { return contains(Days, day) }
func IsCategory(cat string) bool  { return contains(ExpenseCategories, cat) }
func IsGender(gender string) bool { return contains(Genders, gender) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ClassIndex orders class names by the fixed class list; unknown names sort last.
func ClassIndex(name string) int {
	for i, c := range Classes {
		if c == name {
			return i
		}
	}
	return len(Classes)
}
