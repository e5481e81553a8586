package evolve

import (
	"fmt"
	"math/rand"
	"sort"
)

// SelectionPolicy picks the survivors of a generation.
// Implementations never return more individuals than they are given and never
// modify the input slice.
type SelectionPolicy interface {
	Select(pairs []NetworkFitness, rng *rand.Rand) []NetworkFitness
	String() string
}

// Elite keeps the K fittest individuals outright.
// K <= 0 (or K >= the population size) keeps half the population. A population
// of one keeps its single member, so it can still reproduce.
type Elite struct {
	K int
}

// Select returns the fittest pairs in descending fitness order.
func (e Elite) Select(pairs []NetworkFitness, _ *rand.Rand) []NetworkFitness {
	sorted := sortByFitness(pairs)
	return sorted[:survivorCount(e.K, len(pairs))]
}

// String describes the policy for logs.
func (e Elite) String() string {
	return fmt.Sprintf("elite(k=%d)", e.K)
}

// Tournament runs K tournaments. Each samples Size individuals uniformly with
// replacement and keeps the fittest of the sample; the first one drawn wins ties.
// K follows the same defaulting as Elite, including keeping the single member
// of a population of one.
type Tournament struct {
	Size int
	K    int
}

// Select returns the tournament winners in descending fitness order.
// The same individual may win more than once.
func (t Tournament) Select(pairs []NetworkFitness, rng *rand.Rand) []NetworkFitness {
	size := max(t.Size, 1)
	n := survivorCount(t.K, len(pairs))

	winners := make([]NetworkFitness, 0, n)
	for i := 0; i < n; i++ {
		best := pairs[rng.Intn(len(pairs))]
		for j := 1; j < size; j++ {
			if candidate := pairs[rng.Intn(len(pairs))]; candidate.Fitness > best.Fitness {
				best = candidate
			}
		}
		winners = append(winners, best)
	}
	return sortByFitness(winners)
}

// String describes the policy for logs.
func (t Tournament) String() string {
	return fmt.Sprintf("tournament(size=%d, k=%d)", t.Size, t.K)
}

// SelectFittest returns the survivors of pairs chosen by policy, ordered by
// descending fitness.
func SelectFittest(pairs []NetworkFitness, policy SelectionPolicy, rng *rand.Rand) ([]NetworkFitness, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("cannot select from %s: %w", policy, ErrEmptyPopulation)
	}
	return policy.Select(pairs, rng), nil
}

// survivorCount resolves a requested survivor count against a population of n.
// The result is n/2 unless 0 < k < n, and never less than 1.
func survivorCount(k, n int) int {
	if k <= 0 || k >= n {
		k = n / 2
	}
	return max(k, 1)
}

// sortByFitness returns a copy of pairs sorted by descending fitness.
// The sort is stable, so equal fitnesses keep their original order.
func sortByFitness(pairs []NetworkFitness) []NetworkFitness {
	sorted := make([]NetworkFitness, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fitness > sorted[j].Fitness
	})
	return sorted
}
