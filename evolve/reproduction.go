package evolve

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/baldhumanity/evonet/evolve/nn"
)

// CreateInitialPopulation creates size independently initialized networks.
func CreateInitialPopulation(size int, architecture []int, rng *rand.Rand) ([]*nn.Network, error) {
	if size <= 0 {
		return nil, fmt.Errorf("initial population of %d: %w", size, ErrEmptyPopulation)
	}
	population := make([]*nn.Network, size)
	for i := range population {
		net, err := nn.NewNetwork(architecture, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to create network %d: %w", i, err)
		}
		population[i] = net
	}
	return population, nil
}

// Reproduce builds a new population of exactly targetSize children from survivors.
//
// For every child two parents are drawn uniformly with replacement from survivors,
// so a survivor may be both parents of one child. The child is their Crossover, or a
// clone of the first parent when the architectures differ, and is then mutated.
// survivors are only read; the children share no storage with them.
func Reproduce(survivors []NetworkFitness, targetSize int, mutationRate, mutationChance float64, rng *rand.Rand) ([]*nn.Network, error) {
	if len(survivors) == 0 {
		return nil, fmt.Errorf("cannot reproduce without survivors: %w", ErrEmptyPopulation)
	}
	if targetSize <= 0 {
		return nil, fmt.Errorf("target population of %d: %w", targetSize, ErrEmptyPopulation)
	}

	newPopulation := make([]*nn.Network, targetSize)
	for i := range newPopulation {
		parent1 := survivors[rng.Intn(len(survivors))].Network
		parent2 := survivors[rng.Intn(len(survivors))].Network

		child, err := nn.Crossover(parent1, parent2)
		if errors.Is(err, nn.ErrArchitectureMismatch) {
			child = parent1.Clone()
		} else if err != nil {
			return nil, fmt.Errorf("failed to create child %d: %w", i, err)
		}

		child.Mutate(rng, mutationRate, mutationChance)
		newPopulation[i] = child
	}
	return newPopulation, nil
}
