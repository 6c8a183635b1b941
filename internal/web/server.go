// Package web serves the browser front end and a small JSON API on top of
// a reading.Generator. One Server holds one session, meant for a
// single user in one browser.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/abhisek/lezen/internal/export"
	"github.com/abhisek/lezen/internal/reading"
	"github.com/abhisek/lezen/internal/session"
)

// Options configures a Server.
type Options struct {
	// AllowedOrigins enables CORS on /api for the listed origins.
	// Empty disables CORS.
	AllowedOrigins []string
}

// Server wires the generator, the session and the exporter to HTTP.
type Server struct {
	gen      reading.Generator
	session  *session.Session
	exporter export.Exporter
	opts     Options
	log      *zap.Logger
	pages    *pages
}

// New creates a Server. exporter may be nil, in which case downloads
// answer 503. log may be nil.
func New(gen reading.Generator, exporter export.Exporter, opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		gen:      gen,
		session:  session.New(),
		exporter: exporter,
		opts:     opts,
		log:      log,
		pages:    mustParsePages(),
	}
}

// Session returns the server's presentation state.
func (s *Server) Session() *session.Session { return s.session }

// Handler returns the HTTP handler with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(s.log), middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Post("/reset", s.handleReset)
	r.Post("/dismiss", s.handleDismiss)
	r.Get("/export/{variant}", s.handleExport)

	r.Route("/api", func(r chi.Router) {
		if len(s.opts.AllowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.opts.AllowedOrigins,
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
				ExposedHeaders: []string{"Content-Disposition", "Content-Length"},
				MaxAge:         300,
			}))
		}
		r.Post("/generate", s.apiGenerate)
		r.Get("/state", s.apiState)
		r.Post("/reset", s.apiReset)
		r.Get("/export/{variant}", s.handleExport)
	})

	return r
}

// requestLogger logs one line per request.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
