package generator

import (
	"fmt"
	"math"
)

const (
	LinearScheduleName    = "linear"
	BlurCubicScheduleName = "blur-cubic"

	defaultMaxBlurRadius = 10.0
)

// Schedule maps the normalized step position t in [0, 1] to the blend weight of
// the base image and the Gaussian blur radius applied to it before blending.
// Weight(0) must be 0 and Weight(1) must be 1.
type Schedule interface {
	Name() string
	Weight(t float64) float64
	BlurRadius(t float64) float64
}

// LinearSchedule blends noise into the untouched base image with w = t.
type LinearSchedule struct{}

// NewLinearSchedule creates a linear schedule; it takes no parameters
func NewLinearSchedule(params map[string]any) (Schedule, error) {
	return &LinearSchedule{}, nil
}

func (s *LinearSchedule) Name() string {
	return LinearScheduleName
}

func (s *LinearSchedule) Weight(t float64) float64 {
	return clampUnit(t)
}

func (s *LinearSchedule) BlurRadius(t float64) float64 {
	return 0
}

// BlurCubicSchedule blurs the base with a radius shrinking as max*(1-t²) and
// blends it with w = t³, so noise dominates the early frames.
type BlurCubicSchedule struct {
	maxBlurRadius float64
}

// NewBlurCubicSchedule creates a blur-cubic schedule. Optional param: maxBlurRadius.
func NewBlurCubicSchedule(params map[string]any) (Schedule, error) {
	radius := GetFloatParam(params, "maxBlurRadius", defaultMaxBlurRadius)
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("maxBlurRadius must be a finite value >= 0, got %v", radius)
	}
	return &BlurCubicSchedule{maxBlurRadius: radius}, nil
}

func (s *BlurCubicSchedule) Name() string {
	return BlurCubicScheduleName
}

func (s *BlurCubicSchedule) Weight(t float64) float64 {
	t = clampUnit(t)
	return t * t * t
}

func (s *BlurCubicSchedule) BlurRadius(t float64) float64 {
	t = clampUnit(t)
	return s.maxBlurRadius * (1 - t*t)
}

// MaxBlurRadius returns the radius used for the first frame
func (s *BlurCubicSchedule) MaxBlurRadius() float64 {
	return s.maxBlurRadius
}

func clampUnit(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func init() {
	if err := DefaultRegistry.Register(LinearScheduleName, NewLinearSchedule); err != nil {
		panic(fmt.Sprintf("failed to register %s schedule: %v", LinearScheduleName, err))
	}
	if err := DefaultRegistry.Register(BlurCubicScheduleName, NewBlurCubicSchedule); err != nil {
		panic(fmt.Sprintf("failed to register %s schedule: %v", BlurCubicScheduleName, err))
	}
}
