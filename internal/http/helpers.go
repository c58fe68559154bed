package http

import (
	"net/http"

	applog "schooldesk/internal/log"
	"schooldesk/internal/services"
)

// withSchool resolves the tenant from the request host.
func (s *Server) withSchool(next func(http.ResponseWriter, *http.Request, *services.School)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		school := s.directory.ForHost(r.Host)
		logger := applog.FromContext(r.Context()).With(applog.FieldTenant, school.Tenant().Subdomain)
		next(w, r.WithContext(applog.WithLogger(r.Context(), logger)), school)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	NewJSONResponse().Status(status).Body(v).Write(w)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ErrorFor(r, err).Write(w)
}

func badRequest(w http.ResponseWriter, err error) {
	BadRequestError(err.Error()).Write(w)
}
