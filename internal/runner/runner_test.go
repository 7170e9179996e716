package runner

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "series.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigHU(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
series {
  mode           = "hu"
  small_blind    = 50
  big_blind      = 100
  seeds          = [1, 2, 3]
  hands_per_seed = 10
  lineup         = ["tag", "station"]
}
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.SeatCount())
	assert.Equal(t, 10000, cfg.StartingStack(), "defaults to 100bb")
	assert.Equal(t, 2, cfg.Replicas)
	assert.Equal(t, 60000, cfg.TimebankMS)
	assert.Equal(t, []int64{1, 2, 3}, cfg.Seeds)
}

func TestLoadConfigRejectsBadSeries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"bad mode", `
series {
  mode           = "omaha"
  small_blind    = 50
  big_blind      = 100
  seeds          = [1]
  hands_per_seed = 10
  lineup         = ["tag", "station"]
}
`},
		{"wrong lineup size", `
series {
  mode           = "hu"
  small_blind    = 50
  big_blind      = 100
  seeds          = [1]
  hands_per_seed = 10
  lineup         = ["tag"]
}
`},
		{"missing schedule", `
series {
  mode        = "hu"
  small_blind = 50
  big_blind   = 100
  seeds       = [1]
  lineup      = ["tag", "station"]
}
`},
		{"inverted blinds", `
series {
  mode           = "hu"
  small_blind    = 100
  big_blind      = 50
  seeds          = [1]
  hands_per_seed = 10
  lineup         = ["tag", "station"]
}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestRotate(t *testing.T) {
	t.Parallel()

	lineup := []string{"a", "b", "c"}
	assert.Equal(t, []string{"a", "b", "c"}, rotate(lineup, 0))
	assert.Equal(t, []string{"c", "a", "b"}, rotate(lineup, 1))
	assert.Equal(t, []string{"b", "c", "a"}, rotate(lineup, 2))
	assert.Equal(t, []string{"a", "b", "c"}, rotate(lineup, 3))
}

func TestSeatPositions(t *testing.T) {
	t.Parallel()

	hu := seatPositions(2, 1)
	assert.Equal(t, "SB", hu[1])
	assert.Equal(t, "BB", hu[0])

	six := seatPositions(6, 2)
	assert.Equal(t, "BTN", six[2])
	assert.Equal(t, "SB", six[3])
	assert.Equal(t, "BB", six[4])
	assert.Equal(t, "UTG", six[5])
	assert.Equal(t, "HJ", six[0])
	assert.Equal(t, "CO", six[1])
}

func TestRunHUSeries(t *testing.T) {
	t.Parallel()

	cfg := &SeriesConfig{
		Mode:         "hu",
		SmallBlind:   50,
		BigBlind:     100,
		Seeds:        []int64{1, 2},
		HandsPerSeed: 3,
		Lineup:       []string{"tag", "station"},
	}
	cfg.applyDefaults()
	require.NoError(t, cfg.Validate())

	outDir := t.TempDir()
	result, err := New(cfg, outDir, log.New(io.Discard)).Run(context.Background())
	require.NoError(t, err)

	// 2 seeds x 2 replicas x 3 hands x 2 seats.
	assert.Len(t, result.Records, 24)
	assert.Len(t, result.LogPaths, 4)
	for _, path := range result.LogPaths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	// Every hand's deltas across both seats cancel out.
	type handKey struct {
		seed    int64
		replica int
		index   int
	}
	sums := make(map[handKey]int)
	for _, rec := range result.Records {
		sums[handKey{rec.Seed, rec.ReplicaID, rec.HandIndex}] += rec.Delta
	}
	require.Len(t, sums, 12)
	for key, sum := range sums {
		assert.Zerof(t, sum, "hand %+v leaked chips", key)
	}

	require.Contains(t, result.Metrics, "TAG")
	require.Contains(t, result.Metrics, "Station")
	assert.Equal(t, 12, result.Metrics["TAG"].Hands)

	_, err = os.Stat(result.MetricsPath)
	require.NoError(t, err)
	_, err = os.Stat(result.PerHandPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "metrics", "metrics.json"), result.MetricsPath)
}

// The two HU replicas replay identical decks with seats swapped, so with
// deterministic agents each player's chip total over a seed is the
// mirrored sum.
func TestRunHUSeatSwapMirrors(t *testing.T) {
	t.Parallel()

	cfg := &SeriesConfig{
		Mode:         "hu",
		SmallBlind:   50,
		BigBlind:     100,
		Seeds:        []int64{5},
		HandsPerSeed: 4,
		Lineup:       []string{"tag", "tag"},
	}
	cfg.applyDefaults()
	require.NoError(t, cfg.Validate())

	result, err := New(cfg, t.TempDir(), log.New(io.Discard)).Run(context.Background())
	require.NoError(t, err)

	byPlayer := make(map[string]int)
	for _, rec := range result.Records {
		byPlayer[rec.Player] += rec.Delta
	}
	// Identical strategies on mirrored seats break exactly even.
	assert.Equal(t, byPlayer["TAG-1"], byPlayer["TAG-2"])
	assert.Zero(t, byPlayer["TAG-1"]+byPlayer["TAG-2"])
}

func TestRunSixMaxSeries(t *testing.T) {
	t.Parallel()

	cfg := &SeriesConfig{
		Mode:            "sixmax",
		SmallBlind:      50,
		BigBlind:        100,
		Seeds:           []int64{3},
		HandsPerReplica: 2,
		SeatReplicas:    2,
		Lineup:          []string{"tag", "station", "random", "station", "tag", "station"},
	}
	cfg.applyDefaults()
	require.NoError(t, cfg.Validate())

	result, err := New(cfg, t.TempDir(), log.New(io.Discard)).Run(context.Background())
	require.NoError(t, err)

	// 1 seed x 2 seat replicas x 2 hands x 6 seats.
	assert.Len(t, result.Records, 24)

	positions := make(map[string]bool)
	sums := make(map[int]int)
	for _, rec := range result.Records {
		assert.Equal(t, "table", rec.Opponent)
		positions[rec.Position] = true
		sums[rec.HandIndex*10+rec.ReplicaID] += rec.Delta
	}
	for _, sum := range sums {
		assert.Zero(t, sum)
	}
	for _, label := range []string{"BTN", "SB", "BB", "UTG", "HJ", "CO"} {
		assert.True(t, positions[label], "position %s never recorded", label)
	}
}
