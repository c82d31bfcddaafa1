package generator

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// NoiseChannels selects which channels of the base image are mixed with noise
type NoiseChannels string

const (
	// NoiseRGB mixes noise into the color channels only; alpha follows the base image.
	NoiseRGB NoiseChannels = "rgb"
	// NoiseRGBA mixes independent noise into all four channels.
	NoiseRGBA NoiseChannels = "rgba"
)

// Options configures a Generator
type Options struct {
	// Steps is N; a sequence holds N+1 frames.
	Steps         int
	Schedule      Schedule
	NoiseChannels NoiseChannels
	// ResampleNoise draws fresh noise for every frame instead of once per sequence.
	ResampleNoise bool
}

// Frame is one generated image of a denoising sequence
type Frame struct {
	Index      int
	Weight     float64
	BlurRadius float64
	PNG        []byte
}

// Generator turns a base image into a sequence of frames going from noise to the base
type Generator struct {
	options    Options
	noise      io.Reader
	background color.Color
}

// NewGenerator creates a generator drawing its noise from the given reader
func NewGenerator(options Options, noise io.Reader) (*Generator, error) {
	if options.Steps < 1 {
		return nil, fmt.Errorf("steps must be at least 1, got %d", options.Steps)
	}
	if options.Schedule == nil {
		return nil, fmt.Errorf("schedule is required")
	}
	switch options.NoiseChannels {
	case NoiseRGB, NoiseRGBA:
	default:
		return nil, fmt.Errorf("unsupported noise channels: %q", options.NoiseChannels)
	}
	if noise == nil {
		return nil, fmt.Errorf("noise source is required")
	}

	return &Generator{
		options:    options,
		noise:      noise,
		background: color.White,
	}, nil
}

// Steps returns N; Generate produces N+1 frames
func (g *Generator) Steps() int {
	return g.options.Steps
}

// Options returns the options the generator was built with
func (g *Generator) Options() Options {
	return g.options
}

// Generate builds the frame sequence for base. Frame 0 is pure noise and frame N
// is the base image, both flattened onto a white background and PNG encoded.
func (g *Generator) Generate(ctx context.Context, base image.Image) ([]Frame, error) {
	if base == nil {
		return nil, fmt.Errorf("base image is nil")
	}
	bounds := base.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("base image is empty: %dx%d", bounds.Dx(), bounds.Dy())
	}

	// Normalize to a zero-origin non-premultiplied buffer
	src := imaging.Clone(base)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()

	slog.Debug("generator: start",
		"schedule", g.options.Schedule.Name(),
		"steps", g.options.Steps,
		"noise_channels", g.options.NoiseChannels,
		"resample_noise", g.options.ResampleNoise,
		"width", width,
		"height", height)

	noise := make([]byte, width*height*4)
	if !g.options.ResampleNoise {
		if err := g.fillNoise(noise); err != nil {
			return nil, err
		}
	}

	frames := make([]Frame, 0, g.options.Steps+1)
	for k := 0; k <= g.options.Steps; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t := float64(k) / float64(g.options.Steps)
		weight := g.options.Schedule.Weight(t)
		radius := g.options.Schedule.BlurRadius(t)

		signal := src
		if radius > 0 {
			signal = imaging.Blur(src, radius)
		}
		if g.options.ResampleNoise {
			if err := g.fillNoise(noise); err != nil {
				return nil, err
			}
		}

		step := blend(signal, noise, weight, g.options.NoiseChannels)
		flat := flatten(step, g.background)

		var buf bytes.Buffer
		if err := png.Encode(&buf, flat); err != nil {
			return nil, fmt.Errorf("failed to encode frame %d: %w", k, err)
		}

		frames = append(frames, Frame{
			Index:      k,
			Weight:     weight,
			BlurRadius: radius,
			PNG:        buf.Bytes(),
		})
	}

	slog.Debug("generator: complete", "frames", len(frames))
	return frames, nil
}

func (g *Generator) fillNoise(buf []byte) error {
	if _, err := io.ReadFull(g.noise, buf); err != nil {
		return fmt.Errorf("failed to read noise: %w", err)
	}
	return nil
}

// blend computes round(w*signal + (1-w)*noise) per channel. noise holds four
// bytes per pixel in row-major order; its alpha byte is ignored for NoiseRGB.
func blend(signal *image.NRGBA, noise []byte, weight float64, channels NoiseChannels) *image.NRGBA {
	bounds := signal.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	rowLen := width * 4

	parallelFor(height, func(y int) {
		srow := signal.Pix[y*signal.Stride : y*signal.Stride+rowLen]
		orow := out.Pix[y*out.Stride : y*out.Stride+rowLen]
		nrow := noise[y*rowLen : (y+1)*rowLen]
		for i := 0; i < rowLen; i += 4 {
			orow[i+0] = mix(srow[i+0], nrow[i+0], weight)
			orow[i+1] = mix(srow[i+1], nrow[i+1], weight)
			orow[i+2] = mix(srow[i+2], nrow[i+2], weight)
			if channels == NoiseRGBA {
				orow[i+3] = mix(srow[i+3], nrow[i+3], weight)
			} else {
				orow[i+3] = srow[i+3]
			}
		}
	})
	return out
}

func mix(signal, noise uint8, weight float64) uint8 {
	v := math.Round(weight*float64(signal) + (1-weight)*float64(noise))
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// flatten composites src over an opaque background, yielding an opaque image
// that the PNG encoder writes as plain RGB.
func flatten(src *image.NRGBA, background color.Color) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, xdraw.Src)
	xdraw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, xdraw.Over)
	return dst
}
