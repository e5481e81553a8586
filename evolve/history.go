package evolve

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes the fitness of one evaluated generation.
type GenerationStats struct {
	Generation int
	Best       float64
	Mean       float64
	Worst      float64
	Duration   time.Duration
}

// History tracks per-generation statistics and when the best fitness last improved.
// It is informational only; it never stops a run.
type History struct {
	Generations  []GenerationStats
	BestFitness  float64 // Best fitness seen in any generation
	LastImproved int     // Generation in which BestFitness was reached
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{BestFitness: math.Inf(-1)}
}

// Record computes the statistics of pairs and appends them for generation.
func (h *History) Record(generation int, pairs []NetworkFitness, duration time.Duration) GenerationStats {
	fitnesses := make([]float64, len(pairs))
	for i, p := range pairs {
		fitnesses[i] = p.Fitness
	}

	stats := GenerationStats{Generation: generation, Duration: duration}
	if len(fitnesses) > 0 {
		stats.Best = floats.Max(fitnesses)
		stats.Mean = stat.Mean(fitnesses, nil)
		stats.Worst = floats.Min(fitnesses)
	}

	if len(fitnesses) > 0 && stats.Best > h.BestFitness {
		h.BestFitness = stats.Best
		h.LastImproved = generation
	}
	h.Generations = append(h.Generations, stats)
	return stats
}

// StagnantFor returns how many generations have passed since the best fitness improved.
func (h *History) StagnantFor(generation int) int {
	return generation - h.LastImproved
}
