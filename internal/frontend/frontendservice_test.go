package frontend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jo-hoe/godenoise/internal/core"
	"github.com/labstack/echo/v4"
)

func newTestEcho(t *testing.T, preset string) *echo.Echo {
	t.Helper()
	config := core.DefaultConfig()
	config.Uploads.Directory = t.TempDir()
	config.FrameStore.TTL = time.Minute
	config.Generator.Preset = preset
	if err := config.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	coreService, err := core.NewCoreService(context.Background(), config)
	if err != nil {
		t.Fatalf("NewCoreService error: %v", err)
	}
	t.Cleanup(func() { _ = coreService.Close() })

	e := echo.New()
	NewFrontendService(coreService).SetRoutes(e)
	return e
}

func TestIndexHandler(t *testing.T) {
	testCases := []struct {
		preset string
		want   string
	}{
		{"linear-rgb", "revealed in 6 frames"},
		{"blur-cubic", "revealed in 21 frames"},
	}

	for _, tc := range testCases {
		t.Run(tc.preset, func(t *testing.T) {
			e := newTestEcho(t, tc.preset)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tc.want) {
				t.Errorf("index page lacks %q", tc.want)
			}
			if !strings.Contains(body, `name="file"`) {
				t.Errorf("index page lacks the file input")
			}
		})
	}
}

func TestIndexRedirect(t *testing.T) {
	e := newTestEcho(t, "linear-rgb")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+MainPageName, nil))

	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
}

func TestIconHandler(t *testing.T) {
	e := newTestEcho(t, "linear-rgb")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/icon.svg", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/svg+xml" {
		t.Errorf("expected image/svg+xml, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Errorf("icon body is not an SVG document")
	}
}
