package generator

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLinearSchedule(t *testing.T) {
	s, err := NewLinearSchedule(nil)
	if err != nil {
		t.Fatalf("NewLinearSchedule error: %v", err)
	}
	for _, tc := range []struct{ t, want float64 }{{0, 0}, {0.2, 0.2}, {0.5, 0.5}, {1, 1}, {-1, 0}, {2, 1}} {
		if got := s.Weight(tc.t); !almostEqual(got, tc.want) {
			t.Errorf("Weight(%v) = %v, want %v", tc.t, got, tc.want)
		}
		if got := s.BlurRadius(tc.t); got != 0 {
			t.Errorf("BlurRadius(%v) = %v, want 0", tc.t, got)
		}
	}
}

func TestBlurCubicSchedule_Defaults(t *testing.T) {
	s, err := NewBlurCubicSchedule(map[string]any{})
	if err != nil {
		t.Fatalf("NewBlurCubicSchedule error: %v", err)
	}
	testCases := []struct {
		t          float64
		wantWeight float64
		wantRadius float64
	}{
		{0, 0, 10},
		{0.5, 0.125, 7.5},
		{0.1, 0.001, 9.9},
		{1, 1, 0},
	}
	for _, tc := range testCases {
		if got := s.Weight(tc.t); !almostEqual(got, tc.wantWeight) {
			t.Errorf("Weight(%v) = %v, want %v", tc.t, got, tc.wantWeight)
		}
		if got := s.BlurRadius(tc.t); !almostEqual(got, tc.wantRadius) {
			t.Errorf("BlurRadius(%v) = %v, want %v", tc.t, got, tc.wantRadius)
		}
	}
}

func TestBlurCubicSchedule_RadiusShrinksMonotonically(t *testing.T) {
	s, err := NewBlurCubicSchedule(map[string]any{"maxBlurRadius": 4})
	if err != nil {
		t.Fatalf("NewBlurCubicSchedule error: %v", err)
	}
	prev := math.Inf(1)
	for k := 0; k <= 20; k++ {
		r := s.BlurRadius(float64(k) / 20)
		if r > prev {
			t.Fatalf("radius increased at step %d: %v > %v", k, r, prev)
		}
		prev = r
	}
	if prev != 0 {
		t.Fatalf("expected final radius 0, got %v", prev)
	}
}

func TestBlurCubicSchedule_InvalidRadius(t *testing.T) {
	for _, radius := range []any{-1.0, math.NaN(), math.Inf(1)} {
		if _, err := NewBlurCubicSchedule(map[string]any{"maxBlurRadius": radius}); err == nil {
			t.Errorf("expected error for maxBlurRadius %v", radius)
		}
	}
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	want := []string{"blur-cubic", "linear-rgb", "linear-rgba"}
	if len(names) != len(want) {
		t.Fatalf("expected presets %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected presets %v, got %v", want, names)
		}
	}

	p, ok := LookupPreset(DefaultPresetName)
	if !ok {
		t.Fatalf("default preset %s missing", DefaultPresetName)
	}
	if p.Steps != 20 || !p.ResampleNoise || p.NoiseChannels != NoiseRGBA {
		t.Errorf("unexpected default preset: %+v", p)
	}

	// Mutating a looked-up preset must not leak into the table
	p.ScheduleParams["maxBlurRadius"] = 1.0
	again, _ := LookupPreset(DefaultPresetName)
	if GetFloatParam(again.ScheduleParams, "maxBlurRadius", 0) != defaultMaxBlurRadius {
		t.Error("preset table was mutated through a lookup copy")
	}

	if _, ok := LookupPreset("unknown"); ok {
		t.Error("expected unknown preset lookup to fail")
	}
}

func TestPresetOptions_UnknownSchedule(t *testing.T) {
	p := Preset{Name: "broken", Steps: 3, Schedule: "does-not-exist", NoiseChannels: NoiseRGB}
	if _, err := p.Options(nil); err == nil {
		t.Fatal("expected error for unknown schedule")
	}
}
