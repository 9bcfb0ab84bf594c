package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

const scheduleConfigPathEnv = "SCHEDULE_CONFIG_PATH"

const (
	defaultQuietStart = "22:00"
	defaultQuietEnd   = "07:00"
)

// ScheduleConfig carries the fleet-wide default context schedule used
// for users whose preferences do not define their own windows.
type ScheduleConfig struct {
	QuietStart string
	QuietEnd   string
	Windows    []domain.ContextWindow
}

// rawSchedule mirrors the YAML structure for unmarshalling.
type rawSchedule struct {
	Quiet struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	} `yaml:"quiet"`
	Windows []struct {
		Activity string `yaml:"activity"`
		Start    string `yaml:"start"`
		End      string `yaml:"end"`
	} `yaml:"windows"`
}

// LoadScheduleConfig reads the schedule file named by
// SCHEDULE_CONFIG_PATH. Without the env var the built-in defaults
// apply: quiet hours only, no activity windows.
func LoadScheduleConfig() (*ScheduleConfig, error) {
	cfg := &ScheduleConfig{
		QuietStart: defaultQuietStart,
		QuietEnd:   defaultQuietEnd,
	}

	path := os.Getenv(scheduleConfigPathEnv)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule config %s: %w", path, err)
	}

	var raw rawSchedule
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schedule config %s: %w", path, err)
	}

	if raw.Quiet.Start != "" {
		cfg.QuietStart = raw.Quiet.Start
	}
	if raw.Quiet.End != "" {
		cfg.QuietEnd = raw.Quiet.End
	}

	for _, w := range raw.Windows {
		activity, err := domain.ParseActivity(w.Activity)
		if err != nil {
			return nil, fmt.Errorf("schedule config %s: %w", path, err)
		}
		cfg.Windows = append(cfg.Windows, domain.ContextWindow{
			Activity: activity,
			Start:    w.Start,
			End:      w.End,
		})
	}

	return cfg, nil
}
