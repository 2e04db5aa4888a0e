package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MatchConfig describes the board and rules parameters of a match.
type MatchConfig struct {
	Name              string         `json:"name" yaml:"name"`
	Description       string         `json:"description" yaml:"description"`
	CorridorLength    int            `json:"corridor_length" yaml:"corridor_length"`
	CorridorWidth     int            `json:"corridor_width" yaml:"corridor_width"`
	FortressHitPoints int            `json:"fortress_hit_points" yaml:"fortress_hit_points"`
	HandSize          int            `json:"hand_size" yaml:"hand_size"`
	TerrainChance     float64        `json:"terrain_chance" yaml:"terrain_chance"`
	RewardChance      float64        `json:"reward_chance" yaml:"reward_chance"`
	RespawnInterval   int            `json:"respawn_interval" yaml:"respawn_interval"`
	RespawnCount      int            `json:"respawn_count" yaml:"respawn_count"`
	Templates         []CardTemplate `json:"templates,omitempty" yaml:"templates,omitempty"`
}

// DefaultMatchConfig returns the classic 10x4 corridor.
func DefaultMatchConfig() *MatchConfig {
	return &MatchConfig{
		Name:              "classic",
		Description:       "Classic 10x4 corridor with the Man, Grass and Mouse catalog",
		CorridorLength:    10,
		CorridorWidth:     4,
		FortressHitPoints: 3000,
		HandSize:          3,
		TerrainChance:     0.1,
		RewardChance:      0.7,
		RespawnInterval:   3,
		RespawnCount:      2,
		Templates:         DefaultTemplates(),
	}
}

// ApplyDefaults fills zero-valued fields from DefaultMatchConfig.
func (c *MatchConfig) ApplyDefaults() {
	d := DefaultMatchConfig()
	if c.CorridorLength == 0 {
		c.CorridorLength = d.CorridorLength
	}
	if c.CorridorWidth == 0 {
		c.CorridorWidth = d.CorridorWidth
	}
	if c.FortressHitPoints == 0 {
		c.FortressHitPoints = d.FortressHitPoints
	}
	if c.HandSize == 0 {
		c.HandSize = d.HandSize
	}
	if c.TerrainChance == 0 {
		c.TerrainChance = d.TerrainChance
	}
	if c.RewardChance == 0 {
		c.RewardChance = d.RewardChance
	}
	if c.RespawnInterval == 0 {
		c.RespawnInterval = d.RespawnInterval
	}
	if c.RespawnCount == 0 {
		c.RespawnCount = d.RespawnCount
	}
	if len(c.Templates) == 0 {
		c.Templates = d.Templates
	}
}

// ValidateMatchConfig validates a match configuration for correctness and playability
func ValidateMatchConfig(config *MatchConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.CorridorLength < MinCorridorLength || config.CorridorLength > MaxCorridorLength {
		return fmt.Errorf("config validation: corridor_length must be between %d and %d, got %d",
			MinCorridorLength, MaxCorridorLength, config.CorridorLength)
	}
	if config.CorridorWidth < MinCorridorWidth || config.CorridorWidth > MaxCorridorWidth {
		return fmt.Errorf("config validation: corridor_width must be between %d and %d, got %d",
			MinCorridorWidth, MaxCorridorWidth, config.CorridorWidth)
	}
	if config.FortressHitPoints <= 0 {
		return fmt.Errorf("config validation: fortress_hit_points must be positive, got %d", config.FortressHitPoints)
	}
	if config.HandSize < 1 || config.HandSize > MaxHandSize {
		return fmt.Errorf("config validation: hand_size must be between 1 and %d, got %d", MaxHandSize, config.HandSize)
	}

	if config.TerrainChance < 0 || config.TerrainChance > 1 {
		return fmt.Errorf("config validation: terrain_chance must be within [0,1], got %v", config.TerrainChance)
	}
	if config.RewardChance < 0 || config.RewardChance > 1 {
		return fmt.Errorf("config validation: reward_chance must be within [0,1], got %v", config.RewardChance)
	}
	if config.RespawnInterval < 1 {
		return fmt.Errorf("config validation: respawn_interval must be at least 1, got %d", config.RespawnInterval)
	}
	if config.RespawnCount < 1 {
		return fmt.Errorf("config validation: respawn_count must be at least 1, got %d", config.RespawnCount)
	}

	if len(config.Templates) == 0 {
		return fmt.Errorf("config validation: at least one card template is required")
	}
	seen := make(map[string]bool)
	for i, t := range config.Templates {
		if t.Name == "" {
			return fmt.Errorf("config validation: templates[%d] name is required", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("config validation: duplicate template %q", t.Name)
		}
		seen[t.Name] = true
		if t.MaxHitPoints <= 0 || t.HitPoints <= 0 || t.HitPoints > t.MaxHitPoints {
			return fmt.Errorf("config validation: template %q must have 0 < hit_points <= max_hit_points, got %d/%d",
				t.Name, t.HitPoints, t.MaxHitPoints)
		}
		if t.Speed < 1 {
			return fmt.Errorf("config validation: template %q speed must be at least 1, got %d", t.Name, t.Speed)
		}
		if t.Range < 1 {
			return fmt.Errorf("config validation: template %q range must be at least 1, got %d", t.Name, t.Range)
		}
	}

	return nil
}

// ParseMatchConfig decodes a config from JSON or YAML depending on ext
// (".json", ".yaml" or ".yml"), applies defaults, and validates it.
func ParseMatchConfig(data []byte, ext string) (*MatchConfig, error) {
	var config MatchConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse yaml config: %w", err)
		}
	case ".json", "":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse json config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	config.ApplyDefaults()
	if err := ValidateMatchConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadMatchConfig loads a match configuration from a JSON or YAML file
func LoadMatchConfig(filename string) (*MatchConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseMatchConfig(data, filepath.Ext(filename))
}
