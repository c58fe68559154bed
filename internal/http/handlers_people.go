package http

import (
	"errors"
	"net/http"

	"schooldesk/internal/report"
	"schooldesk/internal/services"
)

const maxImportBytes = 10 << 20

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request, school *services.School) {
	var (
		list any
		err  error
	)
	if class := Query(r, "class"); class != "" {
		list, err = school.Roster(r.Context(), class)
	} else {
		list, err = school.ListStudents(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request, school *services.School) {
	var in services.StudentInput
	if err := DecodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	st, err := school.CreateStudent(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request, school *services.School) {
	var in services.StudentInput
	if err := DecodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	st, err := school.UpdateStudent(r.Context(), PathValue(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request, school *services.School) {
	if err := school.DeleteStudent(r.Context(), PathValue(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImportStudents accepts a multipart upload of an .xlsx workbook in
// the "file" field.
func (s *Server) handleImportStudents(w http.ResponseWriter, r *http.Request, school *services.School) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		badRequest(w, errors.New("expected an .xlsx workbook in form field \"file\""))
		return
	}
	defer file.Close()

	rows, err := report.ReadRows(file)
	if err != nil {
		badRequest(w, err)
		return
	}
	res, err := school.ImportStudents(r.Context(), rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListStaff(w http.ResponseWriter, r *http.Request, school *services.School) {
	list, err := school.ListStaff(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateStaff(w http.ResponseWriter, r *http.Request, school *services.School) {
	var in services.StaffInput
	if err := DecodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	st, err := school.CreateStaff(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleUpdateStaff(w http.ResponseWriter, r *http.Request, school *services.School) {
	var in services.StaffInput
	if err := DecodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	st, err := school.UpdateStaff(r.Context(), PathValue(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDeleteStaff(w http.ResponseWriter, r *http.Request, school *services.School) {
	if err := school.DeleteStaff(r.Context(), PathValue(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request, school *services.School) {
	list, err := school.Performance(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleRateStaff(w http.ResponseWriter, r *http.Request, school *services.School) {
	var in services.RatingInput
	if err := DecodeJSON(w, r, &in); err != nil {
		badRequest(w, err)
		return
	}
	p, err := school.RateStaff(r.Context(), PathValue(r, "staffID"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
