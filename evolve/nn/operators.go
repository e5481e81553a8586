package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Clone creates a deep copy of the network. The copy shares no storage with net.
func (net *Network) Clone() *Network {
	c := &Network{
		architecture: net.Architecture(),
		weights:      make([]*Matrix, len(net.weights)),
		biases:       make([]*Matrix, len(net.biases)),
	}
	for i := range net.weights {
		c.weights[i] = net.weights[i].Clone()
		c.biases[i] = net.biases[i].Clone()
	}
	return c
}

// Mutate perturbs the network's parameters in place. Every weight and bias is
// independently selected with probability chance; a selected parameter is shifted
// by a value drawn uniformly from [-rate/2, rate/2). Unselected parameters are
// left untouched.
func (net *Network) Mutate(rng *rand.Rand, rate, chance float64) {
	for _, w := range net.weights {
		mutateSlice(rng, w.data, rate, chance)
	}
	for _, b := range net.biases {
		mutateSlice(rng, b.data, rate, chance)
	}
}

func mutateSlice(rng *rand.Rand, values []float64, rate, chance float64) {
	for i := range values {
		if rng.Float64() < chance {
			values[i] += (rng.Float64() - 0.5) * rate
		}
	}
}

// Crossover creates a child whose every weight and bias is the arithmetic mean of
// the corresponding parameters of parent1 and parent2.
//
// The parents must share an architecture. Otherwise no child is produced and the
// returned error matches ErrArchitectureMismatch, leaving the fallback to the caller.
func Crossover(parent1, parent2 *Network) (*Network, error) {
	if parent1 == nil || parent2 == nil {
		return nil, fmt.Errorf("nil parent: %w", ErrArchitectureMismatch)
	}
	if !parent1.SameArchitecture(parent2) {
		return nil, fmt.Errorf("parents %v and %v: %w", parent1.architecture, parent2.architecture, ErrArchitectureMismatch)
	}
	child, err := newZeroNetwork(parent1.architecture)
	if err != nil {
		return nil, err
	}
	for i := range child.weights {
		average(child.weights[i].data, parent1.weights[i].data, parent2.weights[i].data)
		average(child.biases[i].data, parent1.biases[i].data, parent2.biases[i].data)
	}
	return child, nil
}

// average stores (a+b)/2 in dst. Scaling by 0.5 is exact, so the result is
// identical to dividing the sum by two.
func average(dst, a, b []float64) {
	floats.AddTo(dst, a, b)
	floats.Scale(0.5, dst)
}
