package backend

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/jo-hoe/godenoise/internal/core"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	formFieldFile = "file"
	mimePNG       = "image/png"

	msgNoFilePart      = "No file part"
	msgNoSelectedFile  = "No selected file"
	msgInvalidFilename = "Invalid filename"
	msgNoBaseImages    = "No base images found"
	msgImageNotFound   = "Image not found"
	msgInternalError   = "Internal server error"
)

type APIService struct {
	coreService *core.CoreService
}

type uploadRequest struct {
	Filename string `validate:"required"`
}

type UploadResponse struct {
	Original        string   `json:"original"`
	DenoisingImages []string `json:"denoising_images"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewAPIService(coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/upload", s.uploadHandler)
	e.GET("/images/:filename", s.getUploadHandler)
	e.GET("/images/temp/:id", s.getFrameHandler)
}

func (s *APIService) uploadHandler(ctx echo.Context) error {
	file, err := ctx.FormFile(formFieldFile)
	if err != nil {
		// A part without filename is parsed as a plain form value
		if errors.Is(err, http.ErrMissingFile) && s.hasFormValue(ctx, formFieldFile) {
			slog.Warn("uploadHandler: empty filename", "status", http.StatusBadRequest)
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: msgNoSelectedFile})
		}
		slog.Warn("uploadHandler: no file part", "status", http.StatusBadRequest, "error", err)
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: msgNoFilePart})
	}

	if err := ctx.Validate(&uploadRequest{Filename: file.Filename}); err != nil {
		slog.Warn("uploadHandler: invalid upload request", "status", http.StatusBadRequest, "error", err)
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: msgNoSelectedFile})
	}

	src, err := file.Open()
	if err != nil {
		slog.Error("uploadHandler: failed to open uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to open uploaded file"})
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("uploadHandler: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		slog.Error("uploadHandler: failed to read uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
	}

	result, err := s.coreService.Upload(ctx.Request().Context(), file.Filename, data)
	if err != nil {
		return s.respondUploadError(ctx, err, file.Filename)
	}

	return ctx.JSON(http.StatusOK, UploadResponse{
		Original:        result.Original,
		DenoisingImages: result.Frames,
	})
}

func (s *APIService) respondUploadError(ctx echo.Context, err error, filename string) error {
	var message string
	switch {
	case errors.Is(err, core.ErrEmptyFilename):
		message = msgNoSelectedFile
	case errors.Is(err, core.ErrInvalidFilename):
		message = msgInvalidFilename
	case errors.Is(err, core.ErrBaseImageNotFound):
		message = msgNoBaseImages
	default:
		slog.Error("uploadHandler: failed to process upload",
			"status", http.StatusInternalServerError, "error", err, "filename", filename)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternalError})
	}

	slog.Warn("uploadHandler: rejected upload",
		"status", http.StatusBadRequest, "error", err, "filename", filename)
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func (s *APIService) hasFormValue(ctx echo.Context, key string) bool {
	form := ctx.Request().MultipartForm
	if form == nil {
		return false
	}
	_, ok := form.Value[key]
	return ok
}

func (s *APIService) getUploadHandler(ctx echo.Context) error {
	filename := pathParam(ctx, "filename")

	data, err := s.coreService.GetUpload(ctx.Request().Context(), filename)
	if err != nil {
		if core.IsNotFoundError(err) || errors.Is(err, core.ErrInvalidFilename) {
			slog.Warn("getUploadHandler: image not available",
				"status", http.StatusNotFound, "filename", filename, "error", err)
			return ctx.JSON(http.StatusNotFound, ErrorResponse{Error: msgImageNotFound})
		}
		slog.Error("getUploadHandler: failed to load image",
			"status", http.StatusInternalServerError, "filename", filename, "error", err)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternalError})
	}

	return ctx.Blob(http.StatusOK, contentType(filename, data), data)
}

func (s *APIService) getFrameHandler(ctx echo.Context) error {
	id := pathParam(ctx, "id")

	data, err := s.coreService.GetFrame(ctx.Request().Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			slog.Warn("getFrameHandler: frame not available",
				"status", http.StatusNotFound, "frame_id", id)
			return ctx.JSON(http.StatusNotFound, ErrorResponse{Error: msgImageNotFound})
		}
		slog.Error("getFrameHandler: failed to load frame",
			"status", http.StatusInternalServerError, "frame_id", id, "error", err)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternalError})
	}

	return ctx.Blob(http.StatusOK, mimePNG, data)
}

// pathParam returns the unescaped path parameter; echo may hand out the raw
// escaped form for names with spaces or non-ASCII characters.
func pathParam(ctx echo.Context, name string) string {
	raw := ctx.Param(name)
	if value, err := url.PathUnescape(raw); err == nil {
		return value
	}
	return raw
}

func contentType(filename string, data []byte) string {
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}
