package frontend

import (
	"log/slog"
	"net/http"
	"text/template"

	"github.com/jo-hoe/godenoise/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName = "index.html"

	frameIntervalMs = 120
)

type FrontendService struct {
	coreService *core.CoreService
}

type indexData struct {
	FrameCount      int
	FrameIntervalMs int
}

func NewFrontendService(coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	// Create template renderer
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	e.GET("/", service.indexHandler)
	e.GET("/"+MainPageName, service.rootRedirectHandler)

	// Favicon (SVG) route
	e.GET("/icon.svg", service.iconHandler)
}

// rootRedirectHandler redirects index.html to the root path
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/")
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, MainPageName, indexData{
		FrameCount:      service.coreService.FrameCount(),
		FrameIntervalMs: frameIntervalMs,
	})
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", data)
}
