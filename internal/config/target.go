package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Target describes one monitored JVM endpoint, parsed from a single file in
// the watched directory.
type Target struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// URL overrides the management endpoint derived from host and port.
	URL string `yaml:"url"`

	// Username and Password are optional but must be set together.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Alias is the first segment of every metric path for this target.
	Alias string `yaml:"alias"`

	Queries []Query `yaml:"queries"`
}

// Query selects managed objects and the attributes to read from them.
type Query struct {
	// ObjectName is an object-name pattern; may contain glob-style "*".
	ObjectName string `yaml:"object_name"`

	// ObjectAlias is an optional template with ${key} placeholders resolved
	// against each matched object's name properties.
	ObjectAlias string `yaml:"object_alias"`

	// Attributes lists the attribute names to read. Empty means every
	// attribute the matched object exposes.
	Attributes []string `yaml:"attributes"`
}

// BasePath returns the leading metric-path segment: the configured alias,
// or "<host>_<port>" when none was given.
func (t *Target) BasePath() string {
	if t.Alias != "" {
		return t.Alias
	}
	return fmt.Sprintf("%s_%d", t.Host, t.Port)
}

// LoadTarget reads, validates and decodes one target file. Validation runs
// against the raw document so every violation is reported at once; the
// returned error joins them all.
func LoadTarget(path string) (*Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read target file: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse target file %s: %w", filepath.Base(path), err)
	}

	if errs := ValidateTarget(doc); len(errs) > 0 {
		return nil, fmt.Errorf("config: invalid target file %s: %s",
			filepath.Base(path), strings.Join(errs, "; "))
	}

	var t Target
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("config: decode target file %s: %w", filepath.Base(path), err)
	}
	return &t, nil
}
