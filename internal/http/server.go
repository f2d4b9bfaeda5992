package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"pennywise/internal/auth"
	"pennywise/internal/log"
	"pennywise/internal/metrics"
	"pennywise/internal/middleware/ratelimit"
	"pennywise/internal/middleware/security"
	"pennywise/internal/middleware/trace"
	"pennywise/internal/services"
	"pennywise/internal/store"
	appweb "pennywise/web"
)

// Deps are the collaborators the server routes requests to.
type Deps struct {
	Expenses *services.ExpenseService
	Auth     auth.Provider
	Pinger   store.Pinger
	Logger   *log.Logger

	// RateLimitPerMinute bounds writes per client IP. Zero uses the limiter default.
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	templates *template.Template
	expenses  *services.ExpenseService
	auth      auth.Provider
	pinger    store.Pinger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	logger    *log.Logger
	startedAt time.Time
}

// NewServer parses the embedded templates and wires routes and middleware.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = log.New(log.DefaultConfig())
	}
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	rlCfg := ratelimit.DefaultConfig()
	if deps.RateLimitPerMinute > 0 {
		rlCfg.RequestsPerMinute = deps.RateLimitPerMinute
	}

	s := &Server{
		templates: t,
		expenses:  deps.Expenses,
		auth:      deps.Auth,
		pinger:    deps.Pinger,
		limiter:   ratelimit.NewLimiter(rlCfg),
		detector:  security.NewDetector(),
		logger:    deps.Logger.WithComponent(log.ComponentHTTP),
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		s.limiter.Stop()
		return nil, err
	}

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var h http.Handler = metrics.Middleware(mux)
	h = headers.Middleware(h)
	h = s.detector.Middleware(h)
	h = log.AccessLog(s.detector.ExtractClientIP)(h)
	h = log.RequestIDMiddleware(trace.FromRequest)(h)
	h = log.Middleware(deps.Logger)(h)
	h = trace.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) error {
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())

	// JSON API
	mux.Handle("POST /api/auth/signup", s.limited(s.handleSignUp))
	mux.Handle("POST /api/auth/signin", s.limited(s.handleSignIn))
	mux.HandleFunc("POST /api/auth/signout", s.requireUser(s.handleSignOut))
	mux.HandleFunc("GET /api/auth/me", s.requireUser(s.handleMe))
	mux.HandleFunc("/api/expenses", s.requireUser(s.handleExpenses))
	mux.HandleFunc("GET /api/expenses/export", s.requireUser(s.handleExport))
	mux.HandleFunc("GET /api/stats/categories", s.requireUser(s.handleCategoryStats))
	mux.HandleFunc("GET /api/stats/monthly", s.requireUser(s.handleMonthlyStats))
	mux.HandleFunc("GET /api/dashboard", s.requireUser(s.handleDashboard))

	// Pages
	mux.HandleFunc("GET /{$}", s.handleLoginPage)
	mux.Handle("POST /login", s.limited(s.handleLoginSubmit))
	mux.Handle("POST /signup", s.limited(s.handleSignUpSubmit))
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /tracker", s.requirePageUser(s.handleTracker))
	mux.Handle("POST /tracker/expenses", s.limited(s.requirePageUser(s.handleTrackerAdd)))
	return nil
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.limiter.Stop()
}

// limited applies the per-IP write limit.
func (s *Server) limited(next http.HandlerFunc) http.Handler {
	return s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
		TooManyRequestsError().Write(w)
	})(next)
}

// render executes a template into a buffer first so a failure can still
// produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			"template", name, log.FieldError, err)
		HTMLErrorResponse(http.StatusInternalServerError, "Something went wrong, please try again").Write(w)
		return
	}
	NewResponse().Status(status).BodyHTML(buf.String()).Write(w)
}
