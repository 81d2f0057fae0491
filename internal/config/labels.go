package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Labels is the diet/health label taxonomy loaded from YAML. Uploads are
// validated against it; search filters are not (search stays permissive).
type Labels struct {
	Diet   []string `yaml:"diet"`
	Health []string `yaml:"health"`

	dietSet   map[string]bool
	healthSet map[string]bool
}

// LoadLabels reads and parses the label taxonomy from a YAML file.
func LoadLabels(path string) (*Labels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels file: %w", err)
	}

	var labels Labels
	if err := yaml.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("failed to parse labels file: %w", err)
	}

	labels.dietSet = toSet(labels.Diet)
	labels.healthSet = toSet(labels.Health)
	return &labels, nil
}

// NewLabels builds a taxonomy from in-memory lists.
func NewLabels(diet, health []string) *Labels {
	return &Labels{
		Diet:      diet,
		Health:    health,
		dietSet:   toSet(diet),
		healthSet: toSet(health),
	}
}

// IsKnownDietLabel reports whether the label is part of the diet taxonomy.
// Comparison is case-insensitive.
func (l *Labels) IsKnownDietLabel(label string) bool {
	return l.dietSet[strings.ToLower(strings.TrimSpace(label))]
}

// IsKnownHealthLabel reports whether the label is part of the health taxonomy.
func (l *Labels) IsKnownHealthLabel(label string) bool {
	return l.healthSet[strings.ToLower(strings.TrimSpace(label))]
}

func toSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, label := range labels {
		set[strings.ToLower(strings.TrimSpace(label))] = true
	}
	return set
}
