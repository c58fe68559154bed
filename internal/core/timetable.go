package core

// EmptyTimetable returns a 5 day by 6 period grid of blank cells.
func EmptyTimetable() Timetable {
	tt := make(Timetable, len(Days))
	for _, d := range Days {
		tt[d] = make([]TimetableCell, PeriodCount)
	}
	return tt
}

// Normalize forces the grid into the fixed shape: unknown days are dropped,
// missing days become blank rows, and every row has exactly PeriodCount cells.
func (tt Timetable) Normalize() Timetable {
	out := EmptyTimetable()
	for _, d := range Days {
		copy(out[d], tt[d])
	}
	return out
}

// Set writes one cell, returning ErrInvalidSlot for an unknown day or a
// period outside 0..PeriodCount-1.
func (tt Timetable) Set(day string, period int, cell TimetableCell) error {
	if !IsDay(day) || period < 0 || period >= PeriodCount {
		return ErrInvalidSlot
	}
	row := tt[day]
	if len(row) != PeriodCount {
		fixed := make([]TimetableCell, PeriodCount)
		copy(fixed, row)
		row = fixed
	}
	row[period] = cell
	tt[day] = row
	return nil
}
