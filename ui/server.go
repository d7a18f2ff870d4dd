package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"strconv"
	"time"

	"askmydata/internal"
	"askmydata/internal/session"
	"askmydata/ports"
	"askmydata/ui/services"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static
var embeddedFiles embed.FS

// Server is the dashboard web server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	templates  *template.Template
	interactor *session.Interactor
	sessions   ports.SessionRepository
	renderer   *services.RenderService
	maxUpload  int64
	logger     *internal.Logger
}

// Dependencies are the components the server needs from the container
type Dependencies struct {
	Interactor     *session.Interactor
	Sessions       ports.SessionRepository
	MaxUploadBytes int64
	Logger         *internal.Logger
}

// NewServer creates a new web server instance
func NewServer(deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Server{
		router:     gin.New(),
		interactor: deps.Interactor,
		sessions:   deps.Sessions,
		renderer:   services.NewRenderService(),
		maxUpload:  deps.MaxUploadBytes,
		logger:     logger.With("Server"),
	}
}

// Initialize parses templates and registers middleware and routes
func (s *Server) Initialize() error {
	if s.interactor == nil || s.sessions == nil {
		return fmt.Errorf("server dependencies are not wired")
	}

	templates, err := template.New("").Funcs(templateFuncs()).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int { return a + b },
		// stat prints describe() cells; NaN shows as an empty cell
		"stat": func(v float64) string {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return ""
			}
			return strconv.FormatFloat(v, 'f', 6, 64)
		},
		"pct": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 1, 64) + "%"
		},
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until the server is shut down
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func staticFS() (fs.FS, error) {
	return fs.Sub(embeddedFiles, "static")
}
