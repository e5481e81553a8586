package evolve

import (
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/floats"

	"github.com/baldhumanity/evonet/evolve/nn"
)

// FitnessFunc scores a single network; higher is better.
// It is called concurrently for different networks and must not modify them.
type FitnessFunc func(net *nn.Network) (float64, error)

// Dataset is a labelled collection of samples, such as MNIST digits.
type Dataset interface {
	// Len returns the number of samples.
	Len() int
	// Pixels returns the input row of sample i.
	Pixels(i int) []float64
	// Class returns the index of the hot entry of sample i's one-hot label.
	Class(i int) int
}

// Batch holds the first samples of a Dataset as one input matrix, so a network
// can score all of them with a single Forward pass.
type Batch struct {
	Inputs  *nn.Matrix
	Classes []int
}

// NewBatch copies the first n samples of ds; n is clamped to ds.Len().
func NewBatch(ds Dataset, n int) (*Batch, error) {
	n = min(n, ds.Len())
	if n <= 0 {
		return nil, fmt.Errorf("dataset has no samples: %w", ErrEmptyPopulation)
	}
	inputs, err := nn.NewMatrix(n, len(ds.Pixels(0)))
	if err != nil {
		return nil, fmt.Errorf("failed to allocate batch: %w", err)
	}
	classes := make([]int, n)
	for i := 0; i < n; i++ {
		row := ds.Pixels(i)
		if len(row) != inputs.Cols() {
			return nil, fmt.Errorf("sample %d has %d values, want %d: %w", i, len(row), inputs.Cols(), nn.ErrDimensionMismatch)
		}
		copy(inputs.Row(i), row)
		classes[i] = ds.Class(i)
	}
	return &Batch{Inputs: inputs, Classes: classes}, nil
}

// Correct runs net over the batch and counts the samples whose predicted class
// matches the label.
func (b *Batch) Correct(net *nn.Network) (int, error) {
	out, err := net.Forward(b.Inputs)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i, class := range b.Classes {
		if PredictedClass(out.Row(i)) == class {
			correct++
		}
	}
	return correct, nil
}

// Accuracy returns the fraction of the batch net classifies correctly.
func (b *Batch) Accuracy(net *nn.Network) (float64, error) {
	correct, err := b.Correct(net)
	if err != nil {
		return 0, err
	}
	return float64(correct) / float64(len(b.Classes)), nil
}

// PredictedClass returns the index of the largest output; the first one wins ties.
func PredictedClass(outputs []float64) int {
	return floats.MaxIdx(outputs)
}

// AccuracyFitness returns a FitnessFunc scoring networks by their classification
// accuracy on the first samples of ds. The batch is built once and shared read-only.
func AccuracyFitness(ds Dataset, samples int) (FitnessFunc, error) {
	batch, err := NewBatch(ds, samples)
	if err != nil {
		return nil, err
	}
	return batch.Accuracy, nil
}

// Evaluate applies fitnessFunc to every network of population on a pool of at most
// workers goroutines (0 means GOMAXPROCS). The i-th result always pairs
// population[i] with its own fitness, whatever order the evaluations finish in.
func Evaluate(population []*nn.Network, fitnessFunc FitnessFunc, workers int) ([]NetworkFitness, error) {
	if len(population) == 0 {
		return nil, fmt.Errorf("cannot evaluate: %w", ErrEmptyPopulation)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]NetworkFitness, len(population))
	p := pool.New().WithErrors().WithFirstError().WithMaxGoroutines(workers)
	for i, net := range population {
		i, net := i, net
		p.Go(func() error {
			fitness, err := fitnessFunc(net)
			if err != nil {
				return fmt.Errorf("network %d: %w", i, err)
			}
			results[i] = NetworkFitness{Network: net, Fitness: fitness}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("fitness evaluation failed: %w", err)
	}
	return results, nil
}
