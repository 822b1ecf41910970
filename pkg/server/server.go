// Package server is the caller-facing surface: server-rendered pages,
// the JSON APIs used by the frontend, the export download, and the
// operational endpoints. All shaping and fallback behavior lives in
// pkg/catalog; handlers here only translate HTTP to catalog calls.
package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alicanaksel/Cineseek/pkg/catalog"
	"github.com/alicanaksel/Cineseek/pkg/config"
)

// Server is the Cineseek HTTP server.
type Server struct {
	cfg    *config.Config
	svc    *catalog.Service
	engine *gin.Engine
	pages  bool
}

// New creates a Server wired with all routes. Page routes are mounted
// only when the configured template glob matches files; otherwise the
// server runs API-only.
func New(cfg *config.Config, svc *catalog.Service) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID())

	s := &Server{cfg: cfg, svc: svc, engine: engine}

	if cfg.Web.Templates != "" {
		if matches, _ := filepath.Glob(cfg.Web.Templates); len(matches) > 0 {
			engine.LoadHTMLGlob(cfg.Web.Templates)
			s.pages = true
			engine.GET("/", s.indexPage)
			engine.GET("/results", s.resultsPage)
			engine.GET("/title/:id", s.titlePage)
			engine.GET("/watchlist", s.watchlistPage)
		}
	}
	if cfg.Web.Static != "" {
		if info, err := os.Stat(cfg.Web.Static); err == nil && info.IsDir() {
			engine.Static("/static", cfg.Web.Static)
		}
	}

	api := engine.Group("/api")
	api.GET("/search", s.apiSearch)
	api.GET("/discover", s.apiDiscover)
	api.GET("/spotlight", s.apiSpotlight)
	api.GET("/title_min/:id", s.apiTitleMin)

	engine.GET("/download/:file", s.download)
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// ListenAndServe starts the server with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("cineseek listening on %s (pages=%v)", s.cfg.Listen, s.pages)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

// requestID tags each request so access logs and the request log can be
// correlated.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(catalog.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
