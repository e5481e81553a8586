package evolve

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/baldhumanity/evonet/evolve/nn"
)

// ErrEmptyPopulation is returned when selection, reproduction or evaluation is
// asked to work on no individuals.
var ErrEmptyPopulation = errors.New("evolve: empty population")

// NetworkFitness pairs a network with the fitness it was assigned.
// Fitness is only compared, never interpreted: higher is better.
type NetworkFitness struct {
	Network *nn.Network
	Fitness float64
}

// Best returns the pair with the highest fitness, scanning linearly.
// The first of several equal maxima wins.
func Best(pairs []NetworkFitness) (NetworkFitness, error) {
	if len(pairs) == 0 {
		return NetworkFitness{}, fmt.Errorf("no best of nothing: %w", ErrEmptyPopulation)
	}
	best := pairs[0]
	for _, p := range pairs[1:] {
		if p.Fitness > best.Fitness {
			best = p
		}
	}
	return best, nil
}

// Population holds the state of an evolutionary run.
type Population struct {
	Config     *Config
	Networks   []*nn.Network // Current generation
	Policy     SelectionPolicy
	History    *History
	Generation int // Number of completed generations

	rng    *rand.Rand
	logger *zap.Logger
}

// NewPopulation creates the initial generation described by config.
// rng drives every random decision of the run; a nil logger disables logging.
func NewPopulation(config *Config, rng *rand.Rand, logger *zap.Logger) (*Population, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	networks, err := CreateInitialPopulation(config.Evolution.PopSize, config.Network.Architecture, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial population: %w", err)
	}

	p := &Population{
		Config:   config,
		Networks: networks,
		Policy:   config.SelectionPolicy(),
		History:  NewHistory(),
		rng:      rng,
		logger:   logger,
	}
	logger.Info("created initial population",
		zap.Int("size", len(networks)),
		zap.Ints("architecture", config.Network.Architecture),
		zap.Stringer("selection", p.Policy),
	)
	return p, nil
}

// RunGeneration evaluates the current generation, selects its survivors and
// replaces it with their offspring. It returns the statistics of the evaluated
// generation. The population is left unchanged on error.
func (p *Population) RunGeneration(fitnessFunc FitnessFunc) (GenerationStats, error) {
	generation := p.Generation + 1
	genStartTime := time.Now()

	pairs, err := Evaluate(p.Networks, fitnessFunc, p.Config.Evolution.Workers)
	if err != nil {
		return GenerationStats{}, fmt.Errorf("generation %d: %w", generation, err)
	}

	survivors, err := SelectFittest(pairs, p.Policy, p.rng)
	if err != nil {
		return GenerationStats{}, fmt.Errorf("selection failed in generation %d: %w", generation, err)
	}

	newPopulation, err := Reproduce(survivors, p.Config.Evolution.PopSize,
		p.Config.Reproduction.MutationRate, p.Config.Reproduction.MutationChance, p.rng)
	if err != nil {
		return GenerationStats{}, fmt.Errorf("reproduction failed in generation %d: %w", generation, err)
	}

	p.Networks = newPopulation
	p.Generation = generation
	stats := p.History.Record(generation, pairs, time.Since(genStartTime))

	p.logger.Info("generation finished",
		zap.Int("generation", generation),
		zap.Float64("best", stats.Best),
		zap.Float64("mean", stats.Mean),
		zap.Float64("worst", stats.Worst),
		zap.Int("survivors", len(survivors)),
		zap.Int("stagnant_for", p.History.StagnantFor(generation)),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// Run executes Config.Evolution.Generations generations. onGeneration, if not nil,
// is called after each one.
func (p *Population) Run(fitnessFunc FitnessFunc, onGeneration func(GenerationStats)) error {
	for i := 0; i < p.Config.Evolution.Generations; i++ {
		stats, err := p.RunGeneration(fitnessFunc)
		if err != nil {
			return err
		}
		if onGeneration != nil {
			onGeneration(stats)
		}
	}
	return nil
}

// Champion evaluates the current generation and returns its fittest network.
func (p *Population) Champion(fitnessFunc FitnessFunc) (NetworkFitness, error) {
	pairs, err := Evaluate(p.Networks, fitnessFunc, p.Config.Evolution.Workers)
	if err != nil {
		return NetworkFitness{}, fmt.Errorf("final evaluation: %w", err)
	}
	best, err := Best(pairs)
	if err != nil {
		return NetworkFitness{}, err
	}
	p.logger.Info("champion selected",
		zap.Int("generation", p.Generation),
		zap.Float64("fitness", best.Fitness),
		zap.Float64("best_ever", math.Max(best.Fitness, p.History.BestFitness)),
	)
	return best, nil
}
