package generator

import (
	"errors"
	"strings"
	"testing"
)

func TestScheduleRegistry_Register(t *testing.T) {
	registry := NewScheduleRegistry()

	if err := registry.Register("linear", NewLinearSchedule); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !registry.IsRegistered("linear") {
		t.Error("expected linear to be registered")
	}

	testCases := []struct {
		name     string
		schedule string
		factory  ScheduleFactory
		errPart  string
	}{
		{"empty name", "", NewLinearSchedule, "cannot be empty"},
		{"nil factory", "other", nil, "cannot be nil"},
		{"duplicate", "linear", NewLinearSchedule, "already registered"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := registry.Register(tc.schedule, tc.factory)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("expected error containing %q, got %v", tc.errPart, err)
			}
		})
	}
}

func TestScheduleRegistry_Create(t *testing.T) {
	registry := NewScheduleRegistry()
	factoryErr := errors.New("boom")
	_ = registry.Register("failing", func(params map[string]any) (Schedule, error) {
		return nil, factoryErr
	})
	_ = registry.Register(BlurCubicScheduleName, NewBlurCubicSchedule)

	schedule, err := registry.Create(BlurCubicScheduleName, map[string]any{"maxBlurRadius": 3})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if schedule.Name() != BlurCubicScheduleName {
		t.Errorf("expected %s, got %s", BlurCubicScheduleName, schedule.Name())
	}
	if got := schedule.BlurRadius(0); got != 3 {
		t.Errorf("expected radius 3 at t=0, got %v", got)
	}

	if _, err := registry.Create("missing", nil); err == nil {
		t.Error("expected error for unknown schedule")
	}
	if _, err := registry.Create("failing", nil); !errors.Is(err, factoryErr) {
		t.Errorf("expected wrapped factory error, got %v", err)
	}
}

func TestDefaultRegistry_BuiltIns(t *testing.T) {
	names := DefaultRegistry.GetRegisteredNames()
	if len(names) != 2 || names[0] != BlurCubicScheduleName || names[1] != LinearScheduleName {
		t.Fatalf("unexpected built-in schedules: %v", names)
	}
}
