package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forEachParameter calls fn with every weight and bias of a and the matching one of b.
func forEachParameter(a, b *Network, fn func(x, y float64)) {
	for i := range a.weights {
		for k, v := range a.weights[i].data {
			fn(v, b.weights[i].data[k])
		}
		for k, v := range a.biases[i].data {
			fn(v, b.biases[i].data[k])
		}
	}
}

func TestClone_IsIndependent(t *testing.T) {
	net, err := NewNetwork([]int{3, 4, 2}, newTestRand())
	require.NoError(t, err)
	net.Biases(0).Set(0, 1, 0.25)

	c := net.Clone()
	requireSameParameters(t, net, c)

	c.Weights(0).Set(0, 0, 123)
	c.Biases(1).Set(0, 0, -9)
	assert.NotEqual(t, 123.0, net.Weights(0).At(0, 0))
	assert.NotEqual(t, -9.0, net.Biases(1).At(0, 0))
}

func TestMutate_ZeroChanceIsNoop(t *testing.T) {
	net, err := NewNetwork([]int{5, 4, 3}, newTestRand())
	require.NoError(t, err)
	before := net.Clone()

	net.Mutate(rand.New(rand.NewSource(1)), 10, 0)
	requireSameParameters(t, before, net)
}

func TestMutate_ZeroRateIsNoop(t *testing.T) {
	net, err := NewNetwork([]int{5, 4, 3}, newTestRand())
	require.NoError(t, err)
	before := net.Clone()

	net.Mutate(rand.New(rand.NewSource(1)), 0, 1)
	requireSameParameters(t, before, net)
}

func TestMutate_FullChanceBoundedByHalfRate(t *testing.T) {
	const rate = 0.5
	net, err := NewNetwork([]int{6, 5, 4}, newTestRand())
	require.NoError(t, err)
	before := net.Clone()

	net.Mutate(rand.New(rand.NewSource(3)), rate, 1)

	changed := 0
	forEachParameter(before, net, func(x, y float64) {
		assert.LessOrEqual(t, math.Abs(y-x), rate/2)
		if x != y {
			changed++
		}
	})
	assert.Equal(t, net.NumParameters(), changed)
}

func TestMutate_PartialChanceTouchesSome(t *testing.T) {
	net, err := NewNetwork([]int{20, 20, 10}, newTestRand())
	require.NoError(t, err)
	before := net.Clone()

	net.Mutate(rand.New(rand.NewSource(5)), 1, 0.25)

	changed := 0
	forEachParameter(before, net, func(x, y float64) {
		if x != y {
			changed++
		}
	})
	total := net.NumParameters()
	assert.Greater(t, changed, total/8)
	assert.Less(t, changed, total/2)
}

func TestCrossover_AveragesParents(t *testing.T) {
	p1, err := NewNetwork([]int{2, 2, 1}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	p2, err := NewNetwork([]int{2, 2, 1}, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	p1.Weights(0).Set(0, 0, 0.1)
	p2.Weights(0).Set(0, 0, 0.3)
	p1.Biases(0).Set(0, 0, 0.5)
	p2.Biases(0).Set(0, 0, 0.7)

	child, err := Crossover(p1, p2)
	require.NoError(t, err)
	require.Equal(t, p1.Architecture(), child.Architecture())

	assert.InDelta(t, 0.2, child.Weights(0).At(0, 0), 1e-12)
	assert.InDelta(t, 0.6, child.Biases(0).At(0, 0), 1e-12)

	for i := range child.weights {
		for k, v := range child.weights[i].data {
			assert.Equal(t, (p1.weights[i].data[k]+p2.weights[i].data[k])/2, v)
		}
		for k, v := range child.biases[i].data {
			assert.Equal(t, (p1.biases[i].data[k]+p2.biases[i].data[k])/2, v)
		}
	}
}

func TestCrossover_DoesNotAliasParents(t *testing.T) {
	p, err := NewNetwork([]int{3, 2}, newTestRand())
	require.NoError(t, err)
	child, err := Crossover(p, p)
	require.NoError(t, err)
	requireSameParameters(t, p, child)

	child.Weights(0).Set(0, 0, 77)
	assert.NotEqual(t, 77.0, p.Weights(0).At(0, 0))
}

func TestCrossover_ArchitectureMismatch(t *testing.T) {
	tests := []struct {
		name   string
		a1, a2 []int
	}{
		{"different widths", []int{2, 2, 1}, []int{2, 3, 1}},
		{"different depth", []int{2, 2, 1}, []int{2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p1, err := NewNetwork(tt.a1, newTestRand())
			require.NoError(t, err)
			p2, err := NewNetwork(tt.a2, newTestRand())
			require.NoError(t, err)

			child, err := Crossover(p1, p2)
			require.ErrorIs(t, err, ErrArchitectureMismatch)
			require.Nil(t, child)
		})
	}

	p, err := NewNetwork([]int{2, 1}, newTestRand())
	require.NoError(t, err)
	_, err = Crossover(p, nil)
	require.ErrorIs(t, err, ErrArchitectureMismatch)
}
