package evolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[Evolution]
pop_size = 20
generations = 7
seed = 42
workers = 3

[Network]
# input hidden hidden output
architecture = 16 8 4 2

[Reproduction]
mutation_rate = 0.3
mutation_chance = 0.1

[Selection]
selection_type = elite
survivors = 5

[Fitness]
sample_size = 200

[Data]
train_images = /data/train-images.idx3-ubyte.gz
network_path = out/best.dat
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, EvolutionConfig{PopSize: 20, Generations: 7, Seed: 42, Workers: 3}, config.Evolution)
	assert.Equal(t, []int{16, 8, 4, 2}, config.Network.Architecture)
	assert.Equal(t, 0.3, config.Reproduction.MutationRate)
	assert.Equal(t, 0.1, config.Reproduction.MutationChance)
	assert.Equal(t, "elite", config.Selection.SelectionType)
	assert.Equal(t, 5, config.Selection.Survivors)
	assert.Equal(t, 200, config.Fitness.SampleSize)
	assert.Equal(t, "/data/train-images.idx3-ubyte.gz", config.Data.TrainImages)
	assert.Equal(t, "out/best.dat", config.Data.NetworkPath)

	// keys absent from the file keep their defaults
	defaults := DefaultConfig()
	assert.Equal(t, defaults.Selection.TournamentSize, config.Selection.TournamentSize)
	assert.Equal(t, defaults.Data.TestLabels, config.Data.TestLabels)

	assert.Equal(t, Elite{K: 5}, config.SelectionPolicy())
}

func TestLoadConfig_MissingSectionsUseDefaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "[Evolution]\ngenerations = 3\n"))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Evolution.Generations = 3
	assert.Equal(t, want, config)
	assert.Equal(t, Tournament{Size: 4}, config.SelectionPolicy())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.ini"))
	require.Error(t, err)

	tests := []struct {
		name    string
		content string
	}{
		{"architecture not a number", "[Network]\narchitecture = 784 abc 10\n"},
		{"single layer", "[Network]\narchitecture = 784\n"},
		{"zero width", "[Network]\narchitecture = 784 0 10\n"},
		{"zero population", "[Evolution]\npop_size = 0\n"},
		{"negative generations", "[Evolution]\ngenerations = -1\n"},
		{"negative workers", "[Evolution]\nworkers = -2\n"},
		{"negative mutation rate", "[Reproduction]\nmutation_rate = -0.5\n"},
		{"mutation chance above one", "[Reproduction]\nmutation_chance = 1.5\n"},
		{"unknown selection", "[Selection]\nselection_type = roulette\n"},
		{"empty tournament", "[Selection]\ntournament_size = 0\n"},
		{"too many survivors", "[Evolution]\npop_size = 10\n[Selection]\nsurvivors = 10\n"},
		{"zero sample size", "[Fitness]\nsample_size = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.Nil(t, config)
		})
	}
}

func TestConfig_SelectionPolicy(t *testing.T) {
	config := DefaultConfig()
	config.Selection.SelectionType = "Elite"
	config.Selection.Survivors = 7
	require.NoError(t, config.Validate())
	assert.Equal(t, Elite{K: 7}, config.SelectionPolicy())

	config.Selection.SelectionType = "tournament"
	config.Selection.TournamentSize = 2
	assert.Equal(t, Tournament{Size: 2, K: 7}, config.SelectionPolicy())
}

func TestCleanIniString(t *testing.T) {
	assert.Equal(t, "elite", cleanIniString("  elite   # keep the best"))
	assert.Equal(t, "a/b.dat", cleanIniString("a/b.dat ; output"))
	assert.Equal(t, "", cleanIniString("   "))
}
