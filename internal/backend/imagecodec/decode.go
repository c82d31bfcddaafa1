package imagecodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const FormatSVG = "svg"

// DefaultMaxPixels matches the decompression bomb limit of common imaging libraries
const DefaultMaxPixels = 89_478_485

// ErrImageTooLarge is returned before any pixel buffer is allocated
var ErrImageTooLarge = errors.New("image exceeds pixel limit")

// Decoder turns uploaded bytes into an image. Raster formats go through the
// registered image decoders; SVG documents are rasterized.
type Decoder struct {
	svgFallbackWidth  int
	svgFallbackHeight int
	maxPixels         int64
}

// NewDecoder creates a decoder. The fallback size is only used for SVG input
// without explicit width and height; zero disables it. maxPixels caps
// width*height of any input; zero selects DefaultMaxPixels.
func NewDecoder(svgFallbackWidth, svgFallbackHeight, maxPixels int) *Decoder {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Decoder{
		svgFallbackWidth:  svgFallbackWidth,
		svgFallbackHeight: svgFallbackHeight,
		maxPixels:         int64(maxPixels),
	}
}

func (d *Decoder) checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	if int64(width)*int64(height) > d.maxPixels {
		return fmt.Errorf("%w: %dx%d is more than %d pixels", ErrImageTooLarge, width, height, d.maxPixels)
	}
	return nil
}

// Decode returns the decoded image and its format name
func (d *Decoder) Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("failed to decode image: no data")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) && isSVGData(data) {
		img, err := d.decodeSVG(data)
		if err != nil {
			return nil, "", err
		}
		return img, FormatSVG, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image header: %w", err)
	}
	if err := d.checkSize(cfg.Width, cfg.Height); err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	slog.Debug("imagecodec: decoded raster image",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return img, format, nil
}

func (d *Decoder) decodeSVG(data []byte) (image.Image, error) {
	w, h, ok := parseSvgExplicitSize(data)
	if !ok {
		w, h = d.svgFallbackWidth, d.svgFallbackHeight
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("SVG fallback size not set; cannot render SVG without explicit size")
		}
		slog.Debug("imagecodec: SVG lacks explicit size; using fallback", "width", w, "height", h)
	}
	if err := d.checkSize(w, h); err != nil {
		return nil, fmt.Errorf("failed to render SVG: %w", err)
	}

	img, err := renderSVG(data, w, h)
	if err != nil {
		return nil, fmt.Errorf("failed to render SVG: %w", err)
	}
	return img, nil
}

// renderSVG rasterizes an SVG onto a transparent canvas of the given size
func renderSVG(svgData []byte, targetW, targetH int) (*image.RGBA, error) {
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("invalid target dimensions for SVG rendering: %dx%d", targetW, targetH)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(targetW), float64(targetH))

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	scanner := rasterx.NewScannerGV(targetW, targetH, dst, dst.Bounds())
	dasher := rasterx.NewDasher(targetW, targetH, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}

// isSVGData checks the first ~4KB for an <svg tag or the SVG namespace
func isSVGData(data []byte) bool {
	n := min(len(data), 4096)
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("http://www.w3.org/2000/svg"))
}

// parseSvgExplicitSize reads width and height from the <svg> start tag.
// viewBox is not treated as a pixel size.
func parseSvgExplicitSize(data []byte) (int, int, bool) {
	n := min(len(data), 8192)
	s := strings.ToLower(string(data[:n]))
	start := strings.Index(s, "<svg")
	if start < 0 {
		return 0, 0, false
	}
	tag := s[start:]
	if end := strings.IndexByte(tag, '>'); end >= 0 {
		tag = tag[:end]
	}
	tag = strings.Join(strings.Fields(tag), " ")

	w, wOk := parseNumericAttr(tag, "width")
	h, hOk := parseNumericAttr(tag, "height")
	if wOk && hOk {
		return w, h, true
	}
	return 0, 0, false
}

// parseNumericAttr extracts the leading integer of a quoted attribute value, e.g. width="123px"
func parseNumericAttr(tag, attr string) (int, bool) {
	for _, quote := range []string{`"`, `'`} {
		key := " " + attr + "=" + quote
		pos := strings.Index(tag, key)
		if pos < 0 {
			continue
		}
		val := tag[pos+len(key):]
		if end := strings.Index(val, quote); end >= 0 {
			val = val[:end]
		}
		digits := 0
		for digits < len(val) && val[digits] >= '0' && val[digits] <= '9' {
			digits++
		}
		num, err := strconv.Atoi(val[:digits])
		if err != nil || num <= 0 {
			return 0, false
		}
		return num, true
	}
	return 0, false
}
