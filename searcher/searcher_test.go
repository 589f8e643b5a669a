package searcher

import (
	"context"
	"testing"
	"time"

	"othello/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// endgame has two empties. Dark wins 40-24 with g8 (light must pass, then
// dark takes a1), and loses 27-37 with a1 (light answers g8).
func endgame(t *testing.T) *game.Board {
	t.Helper()
	b, err := game.Parse([]string{
		".OOOOOOX",
		"OOXXXXXX",
		"OXOXXXXX",
		"OXXOXXXX",
		"OOOOOOOO",
		"OOOOOOXO",
		"OOOOOXOO",
		"OXXXXX.O",
	}, game.Dark)
	require.NoError(t, err)
	require.ElementsMatch(t, []game.Move{{Row: 0, Col: 0}, {Row: 7, Col: 6}}, b.LegalMoves(game.Dark))
	return b
}

// openings collects positions reached by random play within the first plies.
func openings(t *testing.T, games, plies int, seed uint64) []*game.Board {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	var boards []*game.Board
	for g := 0; g < games; g++ {
		b := game.New()
		for ply := 0; ply < plies && !b.IsTerminal(); ply++ {
			moves := b.LegalMoves(b.Turn())
			if len(moves) == 0 {
				b.Pass()
				continue
			}
			require.True(t, b.Play(moves[rng.Intn(len(moves))]))
			boards = append(boards, b.Clone())
		}
	}
	return boards
}

func newWalk(p game.Color) *walk {
	return &walk{
		clock:    newClock(context.Background(), 0, CheckInterval),
		evaluate: game.EvaluateHeuristic,
		root:     p,
	}
}

func TestNew(t *testing.T) {
	for _, kind := range []Kind{KindMinimax, KindAlphaBeta, KindMCTS} {
		s, err := New(kind)
		require.NoError(t, err)
		require.Equal(t, string(kind), s.Name())
	}

	_, err := New("random")
	require.ErrorIs(t, err, ErrUnknownKind)

	kind, err := ParseKind(" AlphaBeta ")
	require.NoError(t, err)
	require.Equal(t, KindAlphaBeta, kind)

	_, err = ParseKind("negamax")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestFindMove(t *testing.T) {
	searchers := map[string]func(seed uint64) Searcher{
		"minimax": func(seed uint64) Searcher {
			return NewMinimax(WithDepth(3), WithSeed(seed))
		},
		"alphabeta": func(seed uint64) Searcher {
			return NewAlphaBeta(WithDepth(4), WithSeed(seed))
		},
		"mcts": func(seed uint64) Searcher {
			return NewMCTS(WithEpisodes(300), WithSeed(seed))
		},
	}

	for name, build := range searchers {
		t.Run(name+" plays an opening move", func(t *testing.T) {
			b := game.New()
			before := *b

			move, ok, _ := build(1).FindMove(context.Background(), b, game.Dark)

			require.True(t, ok)
			require.Contains(t, []string{"d3", "c4", "f5", "e6"}, move.String())
			require.Equal(t, before, *b, "Search should not modify the board")
		})

		t.Run(name+" is deterministic with a seed", func(t *testing.T) {
			b := game.New()

			first, _, _ := build(42).FindMove(context.Background(), b, game.Dark)
			second, _, _ := build(42).FindMove(context.Background(), b, game.Dark)

			require.Equal(t, first, second)
		})

		t.Run(name+" finds the winning endgame move", func(t *testing.T) {
			b := endgame(t)

			move, ok, _ := build(7).FindMove(context.Background(), b, game.Dark)

			require.True(t, ok)
			require.Equal(t, "g8", move.String())
		})

		t.Run(name+" reports no move when the player must pass", func(t *testing.T) {
			b, err := game.Parse([]string{
				"XO......", "........", "........", "........",
				"........", "........", "........", "........",
			}, game.Light)
			require.NoError(t, err)

			_, ok, _ := build(1).FindMove(context.Background(), b, game.Light)

			require.False(t, ok)
		})

		t.Run(name+" plays a single legal move without searching", func(t *testing.T) {
			b, err := game.Parse([]string{
				"XO......", "........", "........", "........",
				"........", "........", "........", "........",
			}, game.Dark)
			require.NoError(t, err)

			move, ok, stats := build(1).FindMove(context.Background(), b, game.Dark)

			require.True(t, ok)
			require.Equal(t, game.Move{Row: 0, Col: 2}, move)
			require.Zero(t, stats.Nodes)
		})
	}
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	minimax := NewMinimax()
	alphabeta := NewAlphaBeta()

	for _, b := range openings(t, 6, 8, 5) {
		p := b.Turn()
		moves := b.LegalMoves(p)
		if len(moves) == 0 {
			continue
		}
		orderMoves(moves)
		for depth := 1; depth <= 4; depth++ {
			wantTies, want, err := minimax.rootSearch(newWalk(p), b, moves, depth)
			require.NoError(t, err)
			gotTies, got, err := alphabeta.rootSearch(newWalk(p), b, moves, depth)
			require.NoError(t, err)

			require.Equal(t, want, got, "depth %d value mismatch on\n%s", depth, b)
			require.Equal(t, wantTies, gotTies, "depth %d tie set mismatch on\n%s", depth, b)
		}
	}
}

func TestAlphaBetaPrunes(t *testing.T) {
	b := game.New()

	_, _, full := NewMinimax(WithDepth(4), WithSeed(1)).FindMove(context.Background(), b, game.Dark)
	_, _, pruned := NewAlphaBeta(WithDepth(4), WithSeed(1)).FindMove(context.Background(), b, game.Dark)

	require.Equal(t, 4, full.Depth)
	require.Equal(t, 4, pruned.Depth)
	require.Less(t, pruned.Nodes, full.Nodes, "Alpha-beta should visit fewer nodes than minimax")
}

func TestIterativeDeepening(t *testing.T) {
	t.Run("respects the deadline", func(t *testing.T) {
		b := game.New()
		duration := 100 * time.Millisecond

		start := time.Now()
		move, ok, stats := NewAlphaBeta(WithDuration(duration), WithSeed(3)).FindMove(context.Background(), b, game.Dark)
		elapsed := time.Since(start)

		require.True(t, ok)
		require.True(t, b.IsValidMove(move.Row, move.Col, game.Dark))
		require.GreaterOrEqual(t, stats.Depth, 2, "Should complete at least one iteration")
		require.Zero(t, stats.Depth%2, "Iterations should go two plies at a time")
		require.Less(t, elapsed, duration+time.Second, "Search should stop soon after the deadline")
	})

	t.Run("stops once the game tree is exhausted", func(t *testing.T) {
		b := endgame(t)

		_, ok, stats := NewMinimax(WithDuration(time.Minute)).FindMove(context.Background(), b, game.Dark)

		require.True(t, ok)
		require.Less(t, stats.Elapsed, time.Minute)
		require.LessOrEqual(t, stats.Depth, 4)
	})

	t.Run("depth caps the iterations", func(t *testing.T) {
		b := game.New()

		_, _, stats := NewAlphaBeta(WithDuration(time.Minute), WithDepth(4)).FindMove(context.Background(), b, game.Dark)

		require.Equal(t, 4, stats.Depth)
	})

	t.Run("falls back to the first ordered move when aborted", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		b := game.New()

		move, ok, stats := NewMinimax(WithDepth(3), WithCheckInterval(1)).FindMove(ctx, b, game.Dark)

		require.True(t, ok)
		require.Equal(t, "d3", move.String())
		require.Zero(t, stats.Depth)
	})
}

func TestFindMoveRecovers(t *testing.T) {
	explode := func(*game.Board, game.Color) float64 { panic("boom") }

	require.NotPanics(t, func() {
		_, ok, _ := NewAlphaBeta(WithEvaluationFn(explode)).FindMove(context.Background(), game.New(), game.Dark)
		require.False(t, ok, "A failed search should report no move")
	})
}

func TestOrderMoves(t *testing.T) {
	moves := []game.Move{{Row: 2, Col: 2}, {Row: 0, Col: 3}, {Row: 3, Col: 3}, {Row: 7, Col: 7}, {Row: 4, Col: 0}, {Row: 0, Col: 0}}

	orderMoves(moves)

	require.Equal(t, []game.Move{
		{Row: 7, Col: 7}, {Row: 0, Col: 0}, // corners
		{Row: 0, Col: 3}, {Row: 4, Col: 0}, // edges
		{Row: 2, Col: 2}, {Row: 3, Col: 3},
	}, moves)
}
