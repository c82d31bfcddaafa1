package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jo-hoe/godenoise/internal/backend/framestore"
	"github.com/jo-hoe/godenoise/internal/backend/generator"
	"github.com/jo-hoe/godenoise/internal/backend/imagecodec"
	"github.com/jo-hoe/godenoise/internal/backend/uploadstore"
	"github.com/jo-hoe/godenoise/internal/common"
)

const (
	OriginalURLPrefix = "/images/"
	FrameURLPrefix    = "/images/temp/"
)

// UploadResult references the stored upload and its generated frames in order
type UploadResult struct {
	Original string
	Frames   []string
	BaseName string
}

type CoreService struct {
	config      *ServiceConfig
	uploadStore uploadstore.UploadStore
	frameStore  framestore.FrameStore
	generator   *generator.Generator
	decoder     *imagecodec.Decoder
	entropy     *common.Entropy
	// frame ids always come from system entropy so a seeded restart cannot
	// reissue ids still held by a persistent frame store
	idEntropy *common.Entropy
}

// NewCoreService builds the stores and the generator described by config
func NewCoreService(ctx context.Context, config *ServiceConfig) (*CoreService, error) {
	entropy, err := newEntropy(config.Generator.Seed)
	if err != nil {
		return nil, err
	}
	idEntropy, err := common.NewSystemEntropy()
	if err != nil {
		return nil, err
	}

	options, err := config.Generator.Options()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve generator options: %w", err)
	}
	gen, err := generator.NewGenerator(options, entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	uploadStore, err := uploadstore.NewUploadStore(ctx, config.Uploads.options())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload store: %w", err)
	}

	frameStore, err := framestore.NewFrameStore(config.FrameStore.options())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize frame store: %w", err)
	}

	slog.Info("core service initialized",
		"preset", config.Generator.Preset,
		"schedule", options.Schedule.Name(),
		"steps", options.Steps,
		"noise_channels", options.NoiseChannels,
		"resample_noise", options.ResampleNoise,
		"seeded", config.Generator.Seed != nil)

	return &CoreService{
		config:      config,
		uploadStore: uploadStore,
		frameStore:  frameStore,
		generator:   gen,
		decoder:     imagecodec.NewDecoder(config.Generator.SvgFallbackWidth, config.Generator.SvgFallbackHeight, config.Generator.MaxPixels),
		entropy:     entropy,
		idEntropy:   idEntropy,
	}, nil
}

func newEntropy(seed *uint64) (*common.Entropy, error) {
	if seed != nil {
		slog.Warn("using seeded entropy; frames and base selection are reproducible", "seed", *seed)
		return common.NewSeededEntropy(*seed), nil
	}
	return common.NewSystemEntropy()
}

// FrameCount returns the number of frames produced per upload
func (service *CoreService) FrameCount() int {
	return service.generator.Steps() + 1
}

// Upload stores the file, finds its base image and generates the frame sequence
func (service *CoreService) Upload(ctx context.Context, filename string, data []byte) (result *UploadResult, err error) {
	defer func() {
		UploadsTotal.WithLabelValues(outcomeOf(err)).Inc()
	}()

	if filename == "" {
		return nil, ErrEmptyFilename
	}
	if err := uploadstore.ValidateName(filename); err != nil {
		return nil, err
	}

	if err := service.uploadStore.Save(ctx, filename, data); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	baseName, err := service.selectBaseImage(ctx, filename)
	if err != nil {
		return nil, err
	}

	baseData, err := service.uploadStore.Load(ctx, baseName)
	if err != nil {
		return nil, fmt.Errorf("failed to load base image %s: %w", baseName, err)
	}
	base, format, err := service.decoder.Decode(baseData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base image %s: %w", baseName, err)
	}

	start := time.Now()
	frames, err := service.generator.Generate(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to generate frames: %w", err)
	}
	GenerationDuration.Observe(time.Since(start).Seconds())
	FramesGeneratedTotal.WithLabelValues(service.generator.Options().Schedule.Name()).Add(float64(len(frames)))

	urls := make([]string, 0, len(frames))
	for _, frame := range frames {
		id, err := framestore.NewFrameID(service.idEntropy)
		if err != nil {
			return nil, fmt.Errorf("failed to generate frame id: %w", err)
		}
		if err := service.frameStore.Put(ctx, id, frame.PNG); err != nil {
			return nil, fmt.Errorf("failed to store frame %d: %w", frame.Index, err)
		}
		urls = append(urls, FrameURLPrefix+id)
	}

	slog.Info("upload processed",
		"filename", filename,
		"base_image", baseName,
		"base_format", format,
		"width", base.Bounds().Dx(),
		"height", base.Bounds().Dy(),
		"frames", len(urls),
		"duration", time.Since(start).String())

	return &UploadResult{
		Original: OriginalURLPrefix + filename,
		Frames:   urls,
		BaseName: baseName,
	}, nil
}

// BaseCandidates lists the base image names that may belong to filename
func (service *CoreService) BaseCandidates(filename string) []string {
	prefix := stripExtension(filename)
	candidates := make([]string, 0, len(service.config.BaseSuffixes))
	for _, suffix := range service.config.BaseSuffixes {
		candidates = append(candidates, prefix+suffix)
	}
	return candidates
}

// stripExtension removes the last extension; leading dots do not start one,
// so ".png" and "..png" keep their full name
func stripExtension(filename string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	if strings.Trim(stem, ".") == "" {
		return filename
	}
	return stem
}

// selectBaseImage picks one of the existing candidates at random
func (service *CoreService) selectBaseImage(ctx context.Context, filename string) (string, error) {
	var found []string
	for _, candidate := range service.BaseCandidates(filename) {
		exists, err := service.uploadStore.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to look up base image %s: %w", candidate, err)
		}
		if exists {
			found = append(found, candidate)
		}
	}
	if len(found) == 0 {
		slog.Warn("no base image found", "filename", filename, "candidates", service.BaseCandidates(filename))
		return "", ErrBaseImageNotFound
	}
	return found[service.entropy.IntN(len(found))], nil
}

// GetFrame returns the PNG bytes of a generated frame
func (service *CoreService) GetFrame(ctx context.Context, id string) ([]byte, error) {
	frame, err := service.frameStore.Get(ctx, id)
	switch {
	case err == nil:
		FrameLookupsTotal.WithLabelValues("hit").Inc()
	case errors.Is(err, ErrFrameNotFound):
		FrameLookupsTotal.WithLabelValues("miss").Inc()
	default:
		FrameLookupsTotal.WithLabelValues("error").Inc()
	}
	return frame, err
}

// GetUpload returns a previously uploaded (or base) file byte for byte
func (service *CoreService) GetUpload(ctx context.Context, filename string) ([]byte, error) {
	return service.uploadStore.Load(ctx, filename)
}

// StoredFrames reports how many frames are currently retrievable
func (service *CoreService) StoredFrames(ctx context.Context) (int, error) {
	return service.frameStore.Len(ctx)
}

func (service *CoreService) Close() error {
	return service.frameStore.Close()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case IsClientInputError(err):
		return outcomeClientError
	default:
		return outcomeServerError
	}
}
