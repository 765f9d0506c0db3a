package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"windfall/config"
	"windfall/domain/interfaces"
	"windfall/web/controller"
	"windfall/web/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server is the HTTP front of the claim window: the public landing page and
// claim API plus the session-gated admin panel API.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	claim *controller.ClaimController
	panel *controller.PanelController

	windowService interfaces.WindowService
}

// NewServer creates a web server around the window service
func NewServer(windowService interfaces.WindowService) *Server {
	return &Server{
		windowService: windowService,
	}
}

func (s *Server) initRouter() (*gin.Engine, error) {
	cfg := config.Get()

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	if cfg.CanonicalHost != "" {
		engine.Use(middleware.CanonicalHostRedirect(cfg.CanonicalHost))
	}

	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/panel/api/"})))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	engine.Use(sessions.Sessions("windfall", store))

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", s.index)

	stats := controller.NewSubmissionStats()
	s.claim = controller.NewClaimController(engine.Group("/api"), s.windowService, stats)
	s.panel = controller.NewPanelController(engine.Group("/panel"), s.windowService, stats)

	return engine, nil
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// Start binds the listener and begins serving in the background
func (s *Server) Start() error {
	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	cfg := config.Get()
	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddr, err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler: engine,
	}

	log.WithField("addr", listener.Addr().String()).Info("Web server listening")

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Web server stopped unexpectedly")
		}
	}()

	return nil
}

// Shutdown stops accepting connections and drains in-flight requests until
// the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
