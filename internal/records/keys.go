package records

import "strings"

const (
	KeyStudents         = "students"
	KeyStaff            = "staff"
	KeyFees             = "fees"
	KeyExpenses         = "expenses"
	KeyStaffPerformance = "staffPerformance"
	KeyBranding         = "branding.config"

	AttendancePrefix      = "attendance:"
	StaffAttendancePrefix = "staffAttendance:"
	TimetablePrefix       = "timetable:"
)

func AttendanceKey(className, date string) string {
	return AttendancePrefix + className + ":" + date
}

// ParseAttendanceKey splits "attendance:<class>:<date>". The date is taken
// after the last colon so class names may contain colons.
func ParseAttendanceKey(key string) (className, date string, ok bool) {
	rest, found := strings.CutPrefix(key, AttendancePrefix)
	if !found {
		return "", "", false
	}
	i := strings.LastIndex(rest, ":")
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

func StaffAttendanceKey(date string) string {
	return StaffAttendancePrefix + date
}

func TimetableKey(className string) string {
	return TimetablePrefix + className
}
