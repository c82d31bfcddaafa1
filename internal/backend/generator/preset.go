package generator

import (
	"fmt"
	"maps"
	"slices"
)

const DefaultPresetName = "blur-cubic"

// Preset is a named generator configuration. The built-in presets mirror the
// three denoising animations the service has shipped with.
type Preset struct {
	Name           string
	Steps          int
	Schedule       string
	ScheduleParams map[string]any
	NoiseChannels  NoiseChannels
	ResampleNoise  bool
}

var presets = map[string]Preset{
	"linear-rgb": {
		Name:          "linear-rgb",
		Steps:         5,
		Schedule:      LinearScheduleName,
		NoiseChannels: NoiseRGB,
	},
	"linear-rgba": {
		Name:          "linear-rgba",
		Steps:         5,
		Schedule:      LinearScheduleName,
		NoiseChannels: NoiseRGBA,
	},
	"blur-cubic": {
		Name:           "blur-cubic",
		Steps:          20,
		Schedule:       BlurCubicScheduleName,
		ScheduleParams: map[string]any{"maxBlurRadius": defaultMaxBlurRadius},
		NoiseChannels:  NoiseRGBA,
		ResampleNoise:  true,
	},
}

// LookupPreset returns a copy of the named preset
func LookupPreset(name string) (Preset, bool) {
	preset, ok := presets[name]
	if !ok {
		return Preset{}, false
	}
	preset.ScheduleParams = maps.Clone(preset.ScheduleParams)
	return preset, true
}

// PresetNames returns the sorted names of the built-in presets
func PresetNames() []string {
	return slices.Sorted(maps.Keys(presets))
}

// Options resolves the preset into generator options using the given registry
func (p Preset) Options(registry *ScheduleRegistry) (Options, error) {
	if registry == nil {
		registry = DefaultRegistry
	}
	schedule, err := registry.Create(p.Schedule, p.ScheduleParams)
	if err != nil {
		return Options{}, fmt.Errorf("preset %s: %w", p.Name, err)
	}
	return Options{
		Steps:         p.Steps,
		Schedule:      schedule,
		NoiseChannels: p.NoiseChannels,
		ResampleNoise: p.ResampleNoise,
	}, nil
}
