// Package api is the main api web server
package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"

	"github.com/aouyang1/imageslider/api/models"
	"github.com/aouyang1/imageslider/api/web/templates"
	"github.com/aouyang1/imageslider/carousel"
	"github.com/aouyang1/imageslider/store"
	"github.com/aouyang1/imageslider/util"
)

//go:embed web/static/**
var webFiles embed.FS

type WebServer struct {
	router *gin.Engine
	db     *store.Database
	source carousel.Source
	clock  clock.Clock

	// set when the source is a LocalSource so its files can be served
	localPath string

	// this ensures only one go routine can remount the carousel at a time,
	// it also guards httpServer
	mountMu    sync.Mutex
	controller *carousel.Controller
	httpServer *http.Server
}

func NewWebServer(db *store.Database, source carousel.Source, clk clock.Clock) *WebServer {
	if clk == nil {
		clk = clock.New()
	}

	ws := &WebServer{
		router: gin.Default(),
		db:     db,
		source: source,
		clock:  clk,
	}
	if local, ok := source.(*LocalSource); ok {
		ws.localPath = local.Path()
	}

	// Setup routes
	ws.setupRoutes()

	return ws
}

func (ws *WebServer) setupRoutes() {
	// Create filesystem for static files (strip "web/" prefix)
	staticFS, err := fs.Sub(webFiles, "web/static")
	if err != nil {
		log.Fatalf("Failed to create static filesystem: %v", err)
	}

	// Serve static files from embedded filesystem
	ws.router.StaticFS("/static", http.FS(staticFS))

	// Serve favicon
	serveFavicon := func(c *gin.Context) {
		data, err := webFiles.ReadFile("web/static/images/favicon.svg")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", data)
	}
	ws.router.GET("/favicon.ico", serveFavicon)
	ws.router.GET("/favicon.svg", serveFavicon)

	// UI routes
	ws.router.GET("/", ws.handleIndex)
	ws.router.GET("/carousel", ws.handleCarousel)

	// API routes
	ws.router.GET("/carousel/state", ws.handleCarouselState)
	ws.router.POST("/carousel/toggle", ws.handleToggle)
	ws.router.POST("/carousel/reload", ws.handleReload)
	ws.router.GET("/settings", ws.handleGetSettings)
	ws.router.PUT("/settings", ws.handleUpdateSettings)
	ws.router.GET("/photos/:name/image", ws.handlePhotoImage)
}

// Handler exposes the router, mostly for tests.
func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

// Mount unmounts the current carousel, if any, and mounts a new one using the
// stored settings. Every mount performs exactly one fetch.
func (ws *WebServer) Mount() error {
	settings, err := ws.db.GetAppSettings()
	if err != nil {
		return fmt.Errorf("error while getting settings, %w", err)
	}

	ws.mountMu.Lock()
	defer ws.mountMu.Unlock()

	if ws.controller != nil {
		ws.controller.Close()
	}

	fetcher := carousel.NewSourceFetcher(ws.source, settings.PerPage)
	interval := time.Duration(settings.SlideshowIntervalSeconds) * time.Second
	ws.controller = carousel.Mount(context.Background(), fetcher, ws.clock, interval)

	slog.Info("mounted carousel", "interval", interval, "per_page", settings.PerPage)
	return nil
}

func (ws *WebServer) currentController() *carousel.Controller {
	ws.mountMu.Lock()
	defer ws.mountMu.Unlock()
	return ws.controller
}

func (ws *WebServer) snapshot() (carousel.Snapshot, error) {
	controller := ws.currentController()
	if controller == nil {
		return carousel.Snapshot{}, carousel.ErrClosed
	}
	return controller.Snapshot()
}

// Start mounts the carousel and serves until Shutdown is called.
func (ws *WebServer) Start(addr string) error {
	if err := ws.Mount(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: ws.router,
	}
	ws.mountMu.Lock()
	ws.httpServer = srv
	ws.mountMu.Unlock()

	slog.Info("starting web server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start web server: %w", err)
	}
	return nil
}

// Shutdown stops the http server and unmounts the carousel.
func (ws *WebServer) Shutdown(ctx context.Context) error {
	ws.mountMu.Lock()
	srv := ws.httpServer
	ws.mountMu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	ws.Close()
	return err
}

// Close unmounts the carousel.
func (ws *WebServer) Close() {
	ws.mountMu.Lock()
	defer ws.mountMu.Unlock()
	if ws.controller != nil {
		ws.controller.Close()
		ws.controller = nil
	}
}

func renderHTML(c *gin.Context, status int, component templ.Component) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		slog.Error("failed to render component", "path", c.FullPath(), "error", err)
	}
}

func unavailable(c *gin.Context, isHTMX bool, err error) {
	slog.Warn("carousel unavailable", "error", err)
	if isHTMX {
		c.String(http.StatusServiceUnavailable, "Error: carousel is not mounted")
		return
	}
	c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: fmt.Sprintf("Carousel unavailable: %v", err)})
}

func (ws *WebServer) handleIndex(c *gin.Context) {
	snap, err := ws.snapshot()
	if err != nil {
		unavailable(c, true, err)
		return
	}
	renderHTML(c, http.StatusOK, templates.Page(snap))
}

func (ws *WebServer) handleCarousel(c *gin.Context) {
	snap, err := ws.snapshot()
	if err != nil {
		unavailable(c, true, err)
		return
	}
	renderHTML(c, http.StatusOK, templates.Carousel(snap))
}

func (ws *WebServer) handleCarouselState(c *gin.Context) {
	snap, err := ws.snapshot()
	if err != nil {
		unavailable(c, false, err)
		return
	}
	c.JSON(http.StatusOK, models.NewCarouselStateResponse(snap))
}

func (ws *WebServer) handleToggle(c *gin.Context) {
	// Check if this is an HTMX request
	isHTMX := c.GetHeader("HX-Request") == "true"

	controller := ws.currentController()
	if controller == nil {
		unavailable(c, isHTMX, carousel.ErrClosed)
		return
	}
	snap, err := controller.TogglePlayPause()
	if err != nil {
		unavailable(c, isHTMX, err)
		return
	}

	if isHTMX {
		renderHTML(c, http.StatusOK, templates.Carousel(snap))
		return
	}
	c.JSON(http.StatusOK, models.NewCarouselStateResponse(snap))
}

func (ws *WebServer) handleReload(c *gin.Context) {
	isHTMX := c.GetHeader("HX-Request") == "true"

	if err := ws.Mount(); err != nil {
		if isHTMX {
			c.String(http.StatusInternalServerError, "Error: "+err.Error())
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to remount carousel: %v", err)})
		return
	}

	snap, err := ws.snapshot()
	if err != nil {
		unavailable(c, isHTMX, err)
		return
	}
	if isHTMX {
		renderHTML(c, http.StatusOK, templates.Carousel(snap))
		return
	}
	c.JSON(http.StatusOK, models.NewCarouselStateResponse(snap))
}

func (ws *WebServer) handleGetSettings(c *gin.Context) {
	settings, err := ws.db.GetAppSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get settings: %v", err)})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (ws *WebServer) handleUpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	if req.SlideshowIntervalSeconds <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "slideshow_interval_seconds must be positive"})
		return
	}

	if req.PerPage < 1 || req.PerPage > store.MaxPerPage {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("per_page must be between 1 and %d", store.MaxPerPage)})
		return
	}

	newSettings := &store.AppSettings{
		SlideshowIntervalSeconds: req.SlideshowIntervalSeconds,
		PerPage:                  req.PerPage,
	}

	if err := ws.db.UpsertAppSettings(newSettings); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to update settings: %v", err)})
		return
	}

	// After updating settings, remount the carousel with the new configuration.
	if err := ws.Mount(); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to remount carousel: %v", err)})
		return
	}

	c.JSON(http.StatusOK, newSettings)
}

func (ws *WebServer) handlePhotoImage(c *gin.Context) {
	if ws.localPath == "" {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Local photos are not enabled"})
		return
	}

	encodedName := c.Param("name")
	if encodedName == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Photo name is required"})
		return
	}

	// Decode the photo name
	name, err := url.PathUnescape(encodedName)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid photo name encoding"})
		return
	}

	if name != filepath.Base(name) || name == "." || name == ".." {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid photo name"})
		return
	}

	if !util.IsSupportedImage(name) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file extension: %s", filepath.Ext(name)),
		})
		return
	}

	filePath := filepath.Join(ws.localPath, name)

	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Photo file not found: %s", name)})
		return
	}

	// Serve the file
	c.File(filePath)
}
