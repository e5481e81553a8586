package evolve

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// ErrInvalidConfig is wrapped by every validation error returned from LoadConfig
// and Config.Validate.
var ErrInvalidConfig = errors.New("evolve: invalid config")

// Config stores the parameters of an evolutionary training run.
type Config struct {
	Evolution    EvolutionConfig
	Network      NetworkConfig
	Reproduction ReproductionConfig
	Selection    SelectionConfig
	Fitness      FitnessConfig
	Data         DataConfig
}

// EvolutionConfig holds population-level parameters.
type EvolutionConfig struct {
	PopSize     int   `ini:"pop_size"`
	Generations int   `ini:"generations"`
	Seed        int64 `ini:"seed"`    // 0 seeds from the clock
	Workers     int   `ini:"workers"` // 0 uses GOMAXPROCS
}

// NetworkConfig holds the fixed architecture shared by every individual.
type NetworkConfig struct {
	Architecture []int `ini:"architecture" delim:" "` // Space-separated layer widths
}

// ReproductionConfig holds mutation parameters applied to every child.
type ReproductionConfig struct {
	MutationRate   float64 `ini:"mutation_rate"`
	MutationChance float64 `ini:"mutation_chance"`
}

// SelectionConfig picks the survivor selection policy.
type SelectionConfig struct {
	SelectionType  string `ini:"selection_type"` // "elite" or "tournament"
	TournamentSize int    `ini:"tournament_size"`
	Survivors      int    `ini:"survivors"` // 0 keeps half the population
}

// FitnessConfig holds parameters of the accuracy fitness function.
type FitnessConfig struct {
	SampleSize int `ini:"sample_size"`
}

// DataConfig holds the dataset and network file locations used by the drivers.
type DataConfig struct {
	TrainImages string `ini:"train_images"`
	TrainLabels string `ini:"train_labels"`
	TestImages  string `ini:"test_images"`
	TestLabels  string `ini:"test_labels"`
	NetworkPath string `ini:"network_path"`
}

// DefaultConfig returns the reference hyperparameters for MNIST training.
func DefaultConfig() *Config {
	return &Config{
		Evolution: EvolutionConfig{
			PopSize:     50,
			Generations: 100,
		},
		Network: NetworkConfig{
			Architecture: []int{784, 128, 10},
		},
		Reproduction: ReproductionConfig{
			MutationRate:   0.5,
			MutationChance: 0.25,
		},
		Selection: SelectionConfig{
			SelectionType:  "tournament",
			TournamentSize: 4,
		},
		Fitness: FitnessConfig{
			SampleSize: 1000,
		},
		Data: DataConfig{
			TrainImages: "data/train-images.idx3-ubyte",
			TrainLabels: "data/train-labels.idx1-ubyte",
			TestImages:  "data/t10k-images.idx3-ubyte",
			TestLabels:  "data/t10k-labels.idx1-ubyte",
			NetworkPath: "trained_network.dat",
		},
	}
}

// LoadConfig loads configuration parameters from an INI file.
// Keys absent from the file keep the values of DefaultConfig.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true, // Allow # comments starting with # or ;
		UnescapeValueCommentSymbols: true, // If # or ; appear in value, treat as value
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := DefaultConfig()

	sections := []struct {
		name string
		dst  any
	}{
		{"Evolution", &config.Evolution},
		{"Network", &config.Network},
		{"Reproduction", &config.Reproduction},
		{"Selection", &config.Selection},
		{"Fitness", &config.Fitness},
		{"Data", &config.Data},
	}
	for _, s := range sections {
		if !cfg.HasSection(s.name) {
			continue
		}
		if err := cfg.Section(s.name).MapTo(s.dst); err != nil {
			return nil, fmt.Errorf("failed to map [%s] section: %w", s.name, err)
		}
	}

	// MapTo does not report malformed list items, so re-read the architecture strictly.
	if key, err := cfg.Section("Network").GetKey("architecture"); err == nil {
		widths, err := key.StrictInts(" ")
		if err != nil {
			return nil, fmt.Errorf("%w: architecture '%s': %v", ErrInvalidConfig, key.String(), err)
		}
		config.Network.Architecture = widths
	}

	config.Selection.SelectionType = cleanIniString(config.Selection.SelectionType)
	config.Data.TrainImages = cleanIniString(config.Data.TrainImages)
	config.Data.TrainLabels = cleanIniString(config.Data.TrainLabels)
	config.Data.TestImages = cleanIniString(config.Data.TestImages)
	config.Data.TestLabels = cleanIniString(config.Data.TestLabels)
	config.Data.NetworkPath = cleanIniString(config.Data.NetworkPath)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that every parameter is within range.
func (c *Config) Validate() error {
	if c.Evolution.PopSize <= 0 {
		return invalidf("pop_size must be positive")
	}
	if c.Evolution.Generations < 0 {
		return invalidf("generations cannot be negative")
	}
	if c.Evolution.Workers < 0 {
		return invalidf("workers cannot be negative")
	}
	if len(c.Network.Architecture) < 2 {
		return invalidf("architecture needs at least 2 layers, got %v", c.Network.Architecture)
	}
	for _, width := range c.Network.Architecture {
		if width <= 0 {
			return invalidf("architecture widths must be positive, got %v", c.Network.Architecture)
		}
	}
	if c.Reproduction.MutationRate < 0 {
		return invalidf("mutation_rate cannot be negative")
	}
	if c.Reproduction.MutationChance < 0 || c.Reproduction.MutationChance > 1 {
		return invalidf("mutation_chance must be between 0 and 1")
	}
	switch strings.ToLower(c.Selection.SelectionType) {
	case "elite":
	case "tournament":
		if c.Selection.TournamentSize <= 0 {
			return invalidf("tournament_size must be positive")
		}
	default:
		return invalidf("invalid selection_type '%s', must be one of 'elite', 'tournament'", c.Selection.SelectionType)
	}
	if c.Selection.Survivors < 0 || (c.Evolution.PopSize > 1 && c.Selection.Survivors >= c.Evolution.PopSize) {
		return invalidf("survivors must be between 0 and pop_size-1")
	}
	if c.Fitness.SampleSize <= 0 {
		return invalidf("sample_size must be positive")
	}
	return nil
}

// SelectionPolicy builds the survivor selection policy described by the config.
func (c *Config) SelectionPolicy() SelectionPolicy {
	if strings.EqualFold(c.Selection.SelectionType, "elite") {
		return Elite{K: c.Selection.Survivors}
	}
	return Tournament{Size: c.Selection.TournamentSize, K: c.Selection.Survivors}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
