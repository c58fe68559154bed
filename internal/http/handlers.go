package http

import (
	"context"
	"net/http"
	"time"

	"schooldesk/internal/core"
	applog "schooldesk/internal/log"
	"schooldesk/internal/report"
	"schooldesk/internal/services"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks the record store and the page template.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["store"] = "failed: " + err.Error()
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	} else {
		checks["store"] = "ok"
	}

	if _, err := shellTemplate(); err != nil {
		checks["templates"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	metrics := s.tracer.GetMetrics()
	checks["requests"] = map[string]any{
		"total":      metrics.TotalRequests,
		"failed":     metrics.FailedRequests,
		"suspicious": s.detector.GetMetrics().SuspiciousRequests,
		"clients":    s.limiter.ActiveClients(),
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleIndex renders the page shell with the tenant's branding.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, school *services.School) {
	tmpl, err := shellTemplate()
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", applog.FieldError, err)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	b, err := school.Branding(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := struct {
		Branding core.Branding
		Classes  []string
		Reports  []report.Kind
	}{b, core.Classes, report.Kinds}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpRender)
	}
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request, school *services.School) {
	t := school.Tenant()
	writeJSON(w, http.StatusOK, map[string]any{
		"tenant":      t.Subdomain,
		"rootDomain":  t.RootDomain,
		"classes":     core.Classes,
		"days":        core.Days,
		"periods":     core.PeriodCount,
		"categories":  core.ExpenseCategories,
		"genders":     core.Genders,
		"entryTypes":  []core.EntryType{core.Invoice, core.Payment},
		"reports":     report.Kinds,
		"ratingRange": []int{core.MinRating, core.MaxRating},
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, school *services.School) {
	d, err := school.Dashboard(r.Context(), Query(r, "date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
