package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"schooldesk/internal/branding"
	applog "schooldesk/internal/log"
	"schooldesk/internal/report"
	"schooldesk/internal/services"
)

var errPresentRequired = errors.New("present is required")

func (s *Server) handleFeeSummaries(w http.ResponseWriter, r *http.Request, school *services.School) {
	list, err := school.FeeSummaries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request, school *services.School) {
	view, err := school.Ledger(r.Context(), PathValue(r, "studentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddLedgerItem(w http.ResponseWriter, r *http.Request, school *services.School) {
	var in services.LedgerInput
	if err := DecodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	item, err := school.AddLedgerItem(r.Context(), PathValue(r, "studentID"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleDeleteLedgerItem(w http.ResponseWriter, r *http.Request, school *services.School) {
	if err := school.DeleteLedgerItem(r.Context(), PathValue(r, "studentID"), PathValue(r, "itemID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAttendanceSheet(w http.ResponseWriter, r *http.Request, school *services.School) {
	sheet, err := school.AttendanceSheet(r.Context(), Query(r, "class"), Query(r, "date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (s *Server) handleSetAttendance(w http.ResponseWriter, r *http.Request, school *services.School) {
	var in attendanceMark
	if err := DecodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	if in.Present == nil {
		badRequest(w, errPresentRequired)
		return
	}
	sheet, err := school.SetAttendance(r.Context(), in.Class, in.Date, PathValue(r, "studentID"), *in.Present)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (s *Server) handleStaffAttendanceSheet(w http.ResponseWriter, r *http.Request, school *services.School) {
	sheet, err := school.StaffAttendanceSheet(r.Context(), Query(r, "date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (s *Server) handleSetStaffAttendance(w http.ResponseWriter, r *http.Request, school *services.School) {
	var in staffAttendanceMark
	if err := DecodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	if in.Present == nil {
		badRequest(w, errPresentRequired)
		return
	}
	sheet, err := school.SetStaffAttendance(r.Context(), in.Date, PathValue(r, "staffID"), *in.Present)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request, school *services.School) {
	list, err := school.ListExpenses(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request, school *services.School) {
	var in services.ExpenseInput
	if err := DecodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	e, err := school.CreateExpense(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request, school *services.School) {
	if err := school.DeleteExpense(r.Context(), PathValue(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExpenseTotals(w http.ResponseWriter, r *http.Request, school *services.School) {
	totals, err := school.ExpenseTotals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request, school *services.School) {
	tt, err := school.Timetable(r.Context(), Query(r, "class"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tt)
}

func (s *Server) handleSetTimetableCell(w http.ResponseWriter, r *http.Request, school *services.School) {
	var in timetableCell
	if err := DecodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	tt, err := school.SetTimetableCell(r.Context(), in.Class, services.TimetableCellInput{
		Day:     in.Day,
		Period:  in.Period,
		Subject: in.Subject,
		Teacher: in.Teacher,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tt)
}

func (s *Server) handleBranding(w http.ResponseWriter, r *http.Request, school *services.School) {
	b, err := school.Branding(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleSaveBranding(w http.ResponseWriter, r *http.Request, school *services.School) {
	var patch branding.Patch
	if err := DecodeJSON(w, r, &patch); err != nil {
		badRequest(w, err)
		return
	}
	b, err := school.SaveBranding(r.Context(), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleReport streams one report as a download.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, school *services.School) {
	kind, err := report.ParseKind(PathValue(r, "kind"))
	if err != nil {
		NotFoundError(err.Error()).Write(w)
		return
	}
	format, err := report.ParseFormat(Query(r, "format"))
	if err != nil {
		badRequest(w, err)
		return
	}

	t, err := report.NewBuilder(school.Records()).Build(r.Context(), kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, t, format); err != nil {
		writeError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Report exported",
		applog.FieldReport, string(kind),
		applog.FieldOperation, applog.OpExport,
		"format", string(format),
		"rows", len(t.Rows))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+kind.Filename(format)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
