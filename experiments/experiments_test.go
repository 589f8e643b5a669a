package experiments

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"othello/config"
	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"
)

var quick = Matchup{
	A:          config.Player{Kind: "alphabeta", Depth: 1, Seed: 11},
	B:          config.Player{Kind: "mcts", Episodes: 20, Seed: 29},
	SwapColors: true,
}

func TestRun(t *testing.T) {
	t.Run("plays every game", func(t *testing.T) {
		games, err := Run(context.Background(), quick, 4, 2)

		require.NoError(t, err)
		require.Len(t, games, 4)
		for i, g := range games {
			require.Equal(t, i+1, g.ID)
			require.Equal(t, i%2 == 1, g.Swapped, "Colours should alternate")
			require.NotEqual(t, game.Undecided, g.Record.Outcome)
			require.Equal(t, metrics.Fingerprint(g.Moves), g.Record.Fingerprint)
		}
		require.Equal(t, "alphabeta(depth=1)", games[0].Record.Dark.Agent)
		require.Equal(t, "alphabeta(depth=1)", games[1].Record.Light.Agent)
	})

	t.Run("seeded games replay", func(t *testing.T) {
		first, err := Run(context.Background(), quick, 2, 2)
		require.NoError(t, err)
		second, err := Run(context.Background(), quick, 2, 1)
		require.NoError(t, err)

		for i := range first {
			require.Equal(t, first[i].Record.Fingerprint, second[i].Record.Fingerprint)
			require.Equal(t, first[i].Record.DarkSeed, second[i].Record.DarkSeed)
		}
	})

	t.Run("rejects humans", func(t *testing.T) {
		_, err := Run(context.Background(), Matchup{A: config.Player{Kind: "human"}, B: quick.B}, 1, 1)

		require.ErrorIs(t, err, ErrHumanPlayer)
	})

	t.Run("rejects unknown searchers", func(t *testing.T) {
		_, err := Run(context.Background(), Matchup{A: config.Player{Kind: "random"}, B: quick.B}, 1, 1)

		require.ErrorIs(t, err, searcher.ErrUnknownKind)
	})

	t.Run("stops when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Run(ctx, quick, 2, 1)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestWrite(t *testing.T) {
	games, err := Run(context.Background(), quick, 2, 2)
	require.NoError(t, err)

	dir, err := Write(t.TempDir(), "arena", games)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "games.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "Header plus one row per game")
	require.Equal(t, "id", rows[0][0])

	m, err := os.Open(filepath.Join(dir, "moves.csv"))
	require.NoError(t, err)
	defer m.Close()
	moves, err := csv.NewReader(m).ReadAll()
	require.NoError(t, err)
	require.Len(t, moves, 1+len(games[0].Moves)+len(games[1].Moves))
}

func TestZVal(t *testing.T) {
	is := is.New(t)

	is.True(ZVal(95) > 1.959 && ZVal(95) < 1.961)
	is.True(ZVal(99) > 2.575 && ZVal(99) < 2.577)
}

func TestSummarize(t *testing.T) {
	moves := func(player game.Color, depth int, elapsed time.Duration) []metrics.MoveMetric {
		return []metrics.MoveMetric{
			{Player: player, Stats: searcher.Stats{Depth: depth, Elapsed: elapsed}},
			{Player: player.Opponent(), Stats: searcher.Stats{Depth: 1, Elapsed: time.Millisecond}},
			{Player: player, Passed: true},
		}
	}
	games := []Game{
		{ID: 1, Record: metrics.GameRecord{Fingerprint: 1, GameMetric: metrics.GameMetric{Outcome: game.DarkWins}},
			Moves: moves(game.Dark, 4, 3*time.Millisecond)},
		{ID: 2, Swapped: true, Record: metrics.GameRecord{Fingerprint: 2, GameMetric: metrics.GameMetric{Outcome: game.LightWins}},
			Moves: moves(game.Light, 6, 5*time.Millisecond)},
		{ID: 3, Record: metrics.GameRecord{Fingerprint: 2, GameMetric: metrics.GameMetric{Outcome: game.Draw}},
			Moves: moves(game.Dark, 2, time.Millisecond)},
		{ID: 4, Swapped: true, Record: metrics.GameRecord{Fingerprint: 3, GameMetric: metrics.GameMetric{Outcome: game.DarkWins}},
			Moves: moves(game.Light, 4, 3*time.Millisecond)},
	}

	s := Summarize(quick, games)

	require.Equal(t, 4, s.Games)
	require.Equal(t, 2, s.A.Wins)
	require.Equal(t, 1, s.B.Wins)
	require.Equal(t, 1, s.Draws)
	require.Equal(t, 3, s.Distinct)
	require.InDelta(t, 0.625, s.Score, 1e-9)
	require.Less(t, s.Low, s.Score)
	require.Greater(t, s.High, s.Score)
	require.Equal(t, 4, s.A.Moves, "Passes should not count")
	require.InDelta(t, 4.0, s.A.DepthMean, 1e-9)
	require.InDelta(t, 1.0, s.B.DepthMean, 1e-9)
	require.Equal(t, 3*time.Millisecond, s.A.TimeMean)
	require.Zero(t, s.B.DepthStdDev)
	require.Len(t, s.Times, 8)

	var buf bytes.Buffer
	require.NoError(t, s.Fprint(&buf))
	require.Contains(t, buf.String(), "alphabeta(depth=1)")
	require.Contains(t, buf.String(), "move time (ms)")
}
