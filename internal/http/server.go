package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"schooldesk/internal/backend"
	applog "schooldesk/internal/log"
	"schooldesk/internal/middleware/ratelimit"
	"schooldesk/internal/middleware/security"
	"schooldesk/internal/middleware/trace"
	"schooldesk/internal/services"
	appweb "schooldesk/web"
)

type Server struct {
	http.Server
	directory *services.Directory
	ready     backend.PingFunc
	logger    *applog.Logger
	started   time.Time

	tracer   *trace.Middleware
	detector *security.Detector
	limiter  *ratelimit.Limiter

	shutdownOnce sync.Once
}

var (
	shellOnce sync.Once
	shellTmpl *template.Template
	shellErr  error
)

// shellTemplate parses the page shell on first use.
func shellTemplate() (*template.Template, error) {
	shellOnce.Do(func() {
		shellTmpl, shellErr = template.ParseFS(appweb.TemplatesFS, "templates/layout.html")
	})
	return shellTmpl, shellErr
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. ready may be nil when the store needs no connectivity check.
func NewServer(addr string, directory *services.Directory, ready backend.PingFunc, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	detector := security.NewDetector()
	s := &Server{
		directory: directory,
		ready:     ready,
		logger:    logger,
		started:   time.Now(),
		tracer:    trace.NewMiddleware(logger, detector.ExtractClientIP),
		detector:  detector,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(detector.Middleware(headers.Middleware(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}
	mux.HandleFunc("GET /{$}", s.withSchool(s.handleIndex))

	mux.HandleFunc("GET /api/meta", s.withSchool(s.handleMeta))
	mux.HandleFunc("GET /api/dashboard", s.withSchool(s.handleDashboard))

	mux.HandleFunc("GET /api/students", s.withSchool(s.handleListStudents))
	mux.HandleFunc("POST /api/students", s.withSchool(s.handleCreateStudent))
	mux.HandleFunc("PUT /api/students/{id}", s.withSchool(s.handleUpdateStudent))
	mux.HandleFunc("DELETE /api/students/{id}", s.withSchool(s.handleDeleteStudent))
	mux.Handle("POST /api/students/import", s.limited(s.withSchool(s.handleImportStudents)))

	mux.HandleFunc("GET /api/staff", s.withSchool(s.handleListStaff))
	mux.HandleFunc("POST /api/staff", s.withSchool(s.handleCreateStaff))
	mux.HandleFunc("PUT /api/staff/{id}", s.withSchool(s.handleUpdateStaff))
	mux.HandleFunc("DELETE /api/staff/{id}", s.withSchool(s.handleDeleteStaff))

	mux.HandleFunc("GET /api/fees", s.withSchool(s.handleFeeSummaries))
	mux.HandleFunc("GET /api/fees/{studentID}", s.withSchool(s.handleLedger))
	mux.HandleFunc("POST /api/fees/{studentID}/items", s.withSchool(s.handleAddLedgerItem))
	mux.HandleFunc("DELETE /api/fees/{studentID}/items/{itemID}", s.withSchool(s.handleDeleteLedgerItem))

	mux.HandleFunc("GET /api/attendance", s.withSchool(s.handleAttendanceSheet))
	mux.HandleFunc("PUT /api/attendance/{studentID}", s.withSchool(s.handleSetAttendance))
	mux.HandleFunc("GET /api/staff-attendance", s.withSchool(s.handleStaffAttendanceSheet))
	mux.HandleFunc("PUT /api/staff-attendance/{staffID}", s.withSchool(s.handleSetStaffAttendance))

	mux.HandleFunc("GET /api/staff-performance", s.withSchool(s.handlePerformance))
	mux.HandleFunc("PUT /api/staff-performance/{staffID}", s.withSchool(s.handleRateStaff))

	mux.HandleFunc("GET /api/expenses", s.withSchool(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withSchool(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/summary", s.withSchool(s.handleExpenseTotals))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withSchool(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/timetable", s.withSchool(s.handleTimetable))
	mux.HandleFunc("PUT /api/timetable/cell", s.withSchool(s.handleSetTimetableCell))

	mux.HandleFunc("GET /api/branding", s.withSchool(s.handleBranding))
	mux.HandleFunc("PUT /api/branding", s.withSchool(s.handleSaveBranding))

	mux.Handle("GET /api/reports/{kind}", s.limited(s.withSchool(s.handleReport)))
}

// limited applies the per-client rate limit to expensive endpoints.
func (s *Server) limited(h http.Handler) http.Handler {
	return s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").
			Header("Retry-After", "60").
			Write(w)
	})(h)
}

// Shutdown stops background routines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
