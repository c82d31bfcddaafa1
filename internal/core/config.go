package core

import (
	"fmt"
	"os"
	"time"

	"github.com/jo-hoe/godenoise/internal/backend/framestore"
	"github.com/jo-hoe/godenoise/internal/backend/generator"
	"github.com/jo-hoe/godenoise/internal/backend/imagecodec"
	"github.com/jo-hoe/godenoise/internal/backend/uploadstore"
	"github.com/jo-hoe/godenoise/internal/common"

	"gopkg.in/yaml.v3"
)

type Uploads struct {
	Type      string `yaml:"type" validate:"oneof=filesystem minio"`
	Directory string `yaml:"directory"`
	Minio     Minio  `yaml:"minio"`
}

type Minio struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	Bucket    string `yaml:"bucket"`
}

type FrameStore struct {
	Type             string        `yaml:"type" validate:"oneof=memory redis sqlite"`
	ConnectionString string        `yaml:"connectionString"`
	TTL              time.Duration `yaml:"ttl" validate:"gt=0"`
	MaxEntries       int           `yaml:"maxEntries" validate:"min=0"`
	KeyPrefix        string        `yaml:"keyPrefix"`
}

// Generator selects a preset; the remaining fields override single preset values
type Generator struct {
	Preset            string   `yaml:"preset" validate:"required"`
	Steps             int      `yaml:"steps" validate:"min=0,max=1000"`
	Schedule          string   `yaml:"schedule"`
	MaxBlurRadius     *float64 `yaml:"maxBlurRadius" validate:"omitempty,min=0"`
	NoiseChannels     string   `yaml:"noiseChannels" validate:"omitempty,oneof=rgb rgba"`
	ResampleNoise     *bool    `yaml:"resampleNoise"`
	Seed              *uint64  `yaml:"seed"`
	SvgFallbackWidth  int      `yaml:"svgFallbackWidth" validate:"min=0"`
	SvgFallbackHeight int      `yaml:"svgFallbackHeight" validate:"min=0"`
	MaxPixels         int      `yaml:"maxPixels" validate:"min=1"`
}

type ServiceConfig struct {
	Port          int        `yaml:"port" validate:"min=0,max=65535"`
	LogLevel      string     `yaml:"logLevel" validate:"oneof=debug info warn error"`
	MaxUploadSize string     `yaml:"maxUploadSize" validate:"required"`
	BaseSuffixes  []string   `yaml:"baseSuffixes" validate:"min=1,dive,required"`
	Uploads       Uploads    `yaml:"uploads"`
	FrameStore    FrameStore `yaml:"frameStore"`
	Generator     Generator  `yaml:"generator"`
}

// DefaultConfig returns the configuration used for keys missing from the YAML file
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:          8080,
		LogLevel:      "info",
		MaxUploadSize: "32M",
		BaseSuffixes:  []string{" 肖形.png", " 写照.png"},
		Uploads: Uploads{
			Type:      uploadstore.TypeFilesystem,
			Directory: "uploads",
		},
		FrameStore: FrameStore{
			Type:       framestore.TypeMemory,
			TTL:        time.Hour,
			MaxEntries: 10000,
		},
		Generator: Generator{
			Preset:    generator.DefaultPresetName,
			MaxPixels: imagecodec.DefaultMaxPixels,
		},
	}
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML on top of the defaults
	config := DefaultConfig()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return config, nil
}

// Validate checks struct constraints and cross-field rules
func (config *ServiceConfig) Validate() error {
	if err := common.ValidateStruct(config); err != nil {
		return err
	}
	if err := validateSuffixes(config.BaseSuffixes); err != nil {
		return fmt.Errorf("invalid baseSuffixes: %w", err)
	}
	if config.Uploads.Type == uploadstore.TypeFilesystem && config.Uploads.Directory == "" {
		return fmt.Errorf("uploads.directory is required for the filesystem store")
	}
	if config.FrameStore.Type == framestore.TypeMemory && config.FrameStore.MaxEntries == 0 {
		return fmt.Errorf("frameStore.maxEntries is required for the memory store")
	}
	if config.FrameStore.Type != framestore.TypeMemory && config.FrameStore.ConnectionString == "" {
		return fmt.Errorf("frameStore.connectionString is required for the %s store", config.FrameStore.Type)
	}
	if _, err := config.Generator.Options(); err != nil {
		return fmt.Errorf("invalid generator configuration: %w", err)
	}
	return nil
}

// validateSuffixes ensures base suffixes are unique and keep the match inside the upload namespace
func validateSuffixes(suffixes []string) error {
	seen := make(map[string]bool)

	for i, suffix := range suffixes {
		if err := uploadstore.ValidateName("x" + suffix); err != nil {
			return fmt.Errorf("suffix at index %d: %w", i, err)
		}

		if seen[suffix] {
			return fmt.Errorf("duplicate suffix: %q", suffix)
		}
		seen[suffix] = true
	}

	return nil
}

// Options resolves the preset and overrides into generator options
func (g Generator) Options() (generator.Options, error) {
	preset, ok := generator.LookupPreset(g.Preset)
	if !ok {
		return generator.Options{}, fmt.Errorf("unknown preset %q, available: %v", g.Preset, generator.PresetNames())
	}

	if g.Steps > 0 {
		preset.Steps = g.Steps
	}
	if g.Schedule != "" {
		preset.Schedule = g.Schedule
	}
	if g.MaxBlurRadius != nil {
		if preset.ScheduleParams == nil {
			preset.ScheduleParams = map[string]any{}
		}
		preset.ScheduleParams["maxBlurRadius"] = *g.MaxBlurRadius
	}
	if g.NoiseChannels != "" {
		preset.NoiseChannels = generator.NoiseChannels(g.NoiseChannels)
	}
	if g.ResampleNoise != nil {
		preset.ResampleNoise = *g.ResampleNoise
	}

	return preset.Options(generator.DefaultRegistry)
}

func (f FrameStore) options() framestore.Options {
	return framestore.Options{
		Type:             f.Type,
		ConnectionString: f.ConnectionString,
		TTL:              f.TTL,
		MaxEntries:       f.MaxEntries,
		KeyPrefix:        f.KeyPrefix,
	}
}

func (u Uploads) options() uploadstore.Options {
	return uploadstore.Options{
		Type:      u.Type,
		Directory: u.Directory,
		Minio: uploadstore.MinioOptions{
			Endpoint:  u.Minio.Endpoint,
			AccessKey: u.Minio.AccessKey,
			SecretKey: u.Minio.SecretKey,
			UseSSL:    u.Minio.UseSSL,
			Bucket:    u.Minio.Bucket,
		},
	}
}
