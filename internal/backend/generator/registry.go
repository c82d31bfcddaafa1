package generator

import (
	"fmt"
	"sort"
)

// ScheduleFactory creates a schedule from configuration parameters
type ScheduleFactory func(params map[string]any) (Schedule, error)

// ScheduleRegistry manages the registration and creation of interpolation schedules
type ScheduleRegistry struct {
	factories map[string]ScheduleFactory
}

// NewScheduleRegistry creates a new schedule registry
func NewScheduleRegistry() *ScheduleRegistry {
	return &ScheduleRegistry{
		factories: make(map[string]ScheduleFactory),
	}
}

// Register adds a schedule factory to the registry
func (r *ScheduleRegistry) Register(name string, factory ScheduleFactory) error {
	if name == "" {
		return fmt.Errorf("schedule name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("schedule factory cannot be nil")
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("schedule %s is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Create instantiates a schedule by name with the given parameters
func (r *ScheduleRegistry) Create(name string, params map[string]any) (Schedule, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown schedule: %s", name)
	}

	schedule, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule %s: %w", name, err)
	}

	return schedule, nil
}

// IsRegistered checks if a schedule with the given name is registered
func (r *ScheduleRegistry) IsRegistered(name string) bool {
	_, exists := r.factories[name]
	return exists
}

// GetRegisteredNames returns the sorted names of all registered schedules
func (r *ScheduleRegistry) GetRegisteredNames() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in schedules
var DefaultRegistry = NewScheduleRegistry()
