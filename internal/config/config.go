package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultInterval    = 60 * time.Second
	DefaultTypeLabel   = "jmx"
	DefaultNATSURL     = "nats://127.0.0.1:4222"
	DefaultNATSSubject = "jmxwatch.metrics"
)

// Config is the agent's own configuration. Target endpoints are not listed
// here — they live in per-target files under ConfDir.
type Config struct {
	// ConfDir is the directory watched for target files (*.yml, *.yaml).
	ConfDir string `yaml:"conf_dir"`

	// Interval is the pause between poll cycles of each target.
	// Accepts a duration string ("30s") or a bare number of seconds.
	Interval Duration `yaml:"interval"`

	// TypeLabel is the value of the "type" field on every emitted event.
	TypeLabel string `yaml:"type_label"`

	// Sink selects where metric events are delivered.
	Sink SinkConfig `yaml:"sink"`
}

// SinkConfig selects and configures the output sink.
type SinkConfig struct {
	// Kind is one of: stdout | nats.
	Kind string `yaml:"kind"`

	// URL is the NATS server address — used when Kind == "nats".
	URL string `yaml:"url"`

	// Subject is the NATS subject events are published on.
	Subject string `yaml:"subject"`
}

// Duration wraps time.Duration so YAML accepts either a duration string
// ("90s", "2m") or a bare integer number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads and parses the agent config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Interval:  Duration(DefaultInterval),
		TypeLabel: DefaultTypeLabel,
		Sink: SinkConfig{
			Kind:    "stdout",
			URL:     DefaultNATSURL,
			Subject: DefaultNATSSubject,
		},
	}
}

// validate checks required fields and enum values.
func validate(cfg *Config) error {
	if cfg.ConfDir == "" {
		return fmt.Errorf("conf_dir is required")
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	switch cfg.Sink.Kind {
	case "stdout", "nats":
	default:
		return fmt.Errorf("unknown sink kind %q", cfg.Sink.Kind)
	}
	if cfg.Sink.Kind == "nats" && cfg.Sink.Subject == "" {
		return fmt.Errorf("sink.subject is required for the nats sink")
	}
	return nil
}
