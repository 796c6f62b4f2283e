package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config holds the configuration for the game
type Config struct {
	Mode           string        `json:"mode" env:"LIFE_MODE"`
	ViewWidth      int           `json:"view_width" env:"LIFE_VIEW_WIDTH"`
	ViewHeight     int           `json:"view_height" env:"LIFE_VIEW_HEIGHT"`
	FrameRate      time.Duration `json:"frame_rate" env:"LIFE_FRAME_RATE"`
	MaxGenerations int           `json:"max_generations" env:"LIFE_MAX_GENERATIONS"`
	Pattern        string        `json:"pattern" env:"LIFE_PATTERN"`
	RandomWidth    int           `json:"random_width" env:"LIFE_RANDOM_WIDTH"`
	RandomHeight   int           `json:"random_height" env:"LIFE_RANDOM_HEIGHT"`
	RandomDensity  float64       `json:"random_density" env:"LIFE_RANDOM_DENSITY"`
	Seed           int64         `json:"seed" env:"LIFE_SEED"`
	OffsetX        int64         `json:"offset_x" env:"LIFE_OFFSET_X"`
	OffsetY        int64         `json:"offset_y" env:"LIFE_OFFSET_Y"`
	FollowPattern  bool          `json:"follow_pattern" env:"LIFE_FOLLOW_PATTERN"`
	StorePath      string        `json:"store_path" env:"LIFE_STORE_PATH"`
	SurveyWorkers  int           `json:"survey_workers" env:"LIFE_SURVEY_WORKERS"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Mode:           "animate",
		ViewWidth:      60,
		ViewHeight:     30,
		FrameRate:      300 * time.Millisecond,
		MaxGenerations: 1000,
		Pattern:        "r-pentomino",
		RandomWidth:    40,
		RandomHeight:   20,
		RandomDensity:  0.15,
		Seed:           1,
		FollowPattern:  true,
		StorePath:      "patterns.db",
		SurveyWorkers:  0, // runtime.NumCPU()
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// ApplyEnv overrides config fields from LIFE_* environment variables
func ApplyEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return errors.Wrap(err, "[ApplyEnv] failed to parse environment")
	}
	return nil
}
