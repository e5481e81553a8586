// Package nn implements the dense feedforward networks evolved by package evolve:
// a row-major Matrix, a sigmoid Network built from affine layers, the parameter
// operators used during reproduction and a text codec for persisting networks.
package nn

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
)

// Network is a fixed-architecture feedforward network.
// Layer i maps architecture[i] inputs to architecture[i+1] outputs through
// weights[i] (architecture[i] x architecture[i+1]) and biases[i] (1 x architecture[i+1]),
// followed by a sigmoid.
type Network struct {
	architecture []int
	weights      []*Matrix
	biases       []*Matrix
}

// NewNetwork allocates a network for the given layer widths and initializes it
// from rng (see Initialize).
func NewNetwork(architecture []int, rng *rand.Rand) (*Network, error) {
	net, err := newZeroNetwork(architecture)
	if err != nil {
		return nil, err
	}
	net.Initialize(rng)
	return net, nil
}

// newZeroNetwork allocates a network with every weight and bias set to 0.0.
func newZeroNetwork(architecture []int) (*Network, error) {
	if err := validateArchitecture(architecture); err != nil {
		return nil, err
	}
	layers := len(architecture) - 1
	net := &Network{
		architecture: slices.Clone(architecture),
		weights:      make([]*Matrix, layers),
		biases:       make([]*Matrix, layers),
	}
	for i := 0; i < layers; i++ {
		w, err := NewMatrix(architecture[i], architecture[i+1])
		if err != nil {
			return nil, fmt.Errorf("layer %d weights: %w", i, err)
		}
		b, err := NewMatrix(1, architecture[i+1])
		if err != nil {
			return nil, fmt.Errorf("layer %d biases: %w", i, err)
		}
		net.weights[i] = w
		net.biases[i] = b
	}
	return net, nil
}

func validateArchitecture(architecture []int) error {
	if len(architecture) < 2 {
		return fmt.Errorf("%d layers, need at least 2: %w", len(architecture), ErrInvalidArchitecture)
	}
	for i, width := range architecture {
		if width <= 0 {
			return fmt.Errorf("layer %d has width %d: %w", i, width, ErrInvalidArchitecture)
		}
	}
	return nil
}

// Initialize draws every weight uniformly from [0, 1) scaled by sqrt(2/fan_in),
// where fan_in is the width of the layer feeding it, and resets every bias to 0.0.
//
// The draw is one-sided rather than the zero-mean distribution of textbook He
// initialization. Trained networks depend on this distribution, so it is kept.
func (net *Network) Initialize(rng *rand.Rand) {
	for i, w := range net.weights {
		scale := math.Sqrt(2.0 / float64(net.architecture[i]))
		for k := range w.data {
			w.data[k] = rng.Float64() * scale
		}
		clear(net.biases[i].data)
	}
}

// Forward propagates input, one sample per row, through every layer and returns
// the output activations as an (input.Rows(), last layer width) matrix.
// input is never modified, so concurrent Forward calls on one network are safe.
func (net *Network) Forward(input *Matrix) (*Matrix, error) {
	if input.cols != net.architecture[0] {
		return nil, fmt.Errorf("input has %d columns, network expects %d: %w", input.cols, net.architecture[0], ErrDimensionMismatch)
	}
	out := input.Clone()
	for i := range net.weights {
		next, err := Dot(out, net.weights[i])
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if err := AddBiasRow(next, net.biases[i]); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		ApplySigmoid(next)
		out = next
	}
	return out, nil
}

// Architecture returns a copy of the layer widths.
func (net *Network) Architecture() []int {
	return slices.Clone(net.architecture)
}

// NumLayers returns the number of layer widths, including the input layer.
func (net *Network) NumLayers() int {
	return len(net.architecture)
}

// Weights returns the weight matrix of layer i. The matrix is owned by net;
// writes through it change the network.
func (net *Network) Weights(i int) *Matrix {
	return net.weights[i]
}

// Biases returns the 1-row bias matrix of layer i. The matrix is owned by net.
func (net *Network) Biases(i int) *Matrix {
	return net.biases[i]
}

// SameArchitecture reports whether net and other have identical layer widths.
func (net *Network) SameArchitecture(other *Network) bool {
	return slices.Equal(net.architecture, other.architecture)
}

// NumParameters returns the total number of weights and biases.
func (net *Network) NumParameters() int {
	n := 0
	for i := range net.weights {
		n += len(net.weights[i].data) + len(net.biases[i].data)
	}
	return n
}
