package nn

import (
	"bytes"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Layout(t *testing.T) {
	net, err := NewNetwork([]int{2, 2, 1}, newTestRand())
	require.NoError(t, err)
	setKnownParameters(t, net)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, net))

	want := strings.Join([]string{
		"3",
		"2 2 1",
		"0.10000000000000001 0.20000000000000001",
		"0.29999999999999999 0.40000000000000002",
		"0.5 0.5",
		"0.5",
		"0.59999999999999998",
		"-0.5",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for _, arch := range [][]int{{2, 1}, {2, 3, 1}, {7, 5, 4, 3}} {
		net, err := NewNetwork(arch, rng)
		require.NoError(t, err)
		net.Mutate(rng, 2, 1) // non-zero biases, negative weights
		net.Weights(0).Set(0, 0, 1e-300)
		net.Biases(0).Set(0, 0, -math.MaxFloat64)

		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, net))
		got, err := Decode(&buf)
		require.NoError(t, err)

		require.Equal(t, net.Architecture(), got.Architecture())
		forEachParameter(net, got, func(x, y float64) {
			require.Equal(t, x, y)
		})
	}
}

func TestDecode_Corrupt(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"blank lines only", "\n\n  \n"},
		{"non-integer layer count", "three\n2 2 1\n"},
		{"single layer", "1\n2\n"},
		{"missing architecture", "3\n"},
		{"architecture too short", "3\n2 1\n0.1 0.2\n"},
		{"architecture too long", "2\n2 1 4\n"},
		{"non-integer width", "2\n2 x\n"},
		{"zero width", "2\n2 0\n"},
		{"oversized architecture", "2\n2 1000000000000000\n0.1\n"},
		{"non-numeric weight", "2\n2 1\n0.1\nabc\n0.3\n"},
		{"truncated weights", "2\n2 1\n0.1\n"},
		{"missing bias", "2\n2 1\n0.1\n0.2\n"},
		{"truncated second layer", "3\n2 2 1\n0.1 0.2\n0.3 0.4\n0.5 0.5\n0.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := Decode(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrCorruptFormat)
			require.Nil(t, net)
		})
	}
}

func TestDecode_ToleratesWhitespaceAndTrailingData(t *testing.T) {
	input := "\n2\n  2 1 \n0.25 \n\t-0.75\n 1.5 \nextra tokens ignored\n"
	net, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []int{2, 1}, net.Architecture())
	assert.Equal(t, 0.25, net.Weights(0).At(0, 0))
	assert.Equal(t, -0.75, net.Weights(0).At(1, 0))
	assert.Equal(t, 1.5, net.Biases(0).At(0, 0))
}

func TestSaveLoadFile(t *testing.T) {
	net, err := NewNetwork([]int{4, 3, 2}, newTestRand())
	require.NoError(t, err)
	net.Mutate(newTestRand(), 1, 1)

	dir := t.TempDir()
	for _, name := range []string{"net.dat", "net.dat.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveFile(path, net))

			got, err := LoadFile(path)
			require.NoError(t, err)
			requireSameParameters(t, net, got)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must not be left behind")
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.dat"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.dat")
	require.NoError(t, os.WriteFile(bad, []byte("2\n2 1\n0.5\n"), 0o644))
	_, err = LoadFile(bad)
	require.ErrorIs(t, err, ErrCorruptFormat)

	notGzip := filepath.Join(dir, "plain.dat.gz")
	require.NoError(t, os.WriteFile(notGzip, []byte("2\n2 1\n0.5 0.5\n0.1\n"), 0o644))
	_, err = LoadFile(notGzip)
	require.ErrorIs(t, err, ErrCorruptFormat)
}

func TestSaveFile_MissingDirectory(t *testing.T) {
	net, err := NewNetwork([]int{2, 1}, newTestRand())
	require.NoError(t, err)
	err = SaveFile(filepath.Join(t.TempDir(), "nope", "net.dat"), net)
	require.Error(t, err)
}
