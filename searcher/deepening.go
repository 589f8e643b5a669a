package searcher

import (
	"context"
	"math"

	"othello/game"

	"github.com/rs/zerolog/log"
)

// walk carries the state of one tree search from the root player's view.
type walk struct {
	clock    *clock
	evaluate game.Evaluate
	root     game.Color
	// cut is set when some leaf was scored at the depth limit rather than at
	// the end of the game.
	cut bool
}

func (w *walk) side(maximizing bool) game.Color {
	if maximizing {
		return w.root
	}
	return w.root.Opponent()
}

// rootSearch scores every root move to depth plies and returns the moves
// tied for the best value.
type rootSearch func(w *walk, b *game.Board, moves []game.Move, depth int) ([]game.Move, float64, error)

// deepen drives a tree search. Without a duration it searches once to the
// configured depth. With one it deepens two plies at a time until the clock
// runs out, keeping the result of the last completed depth.
func deepen(ctx context.Context, s *settings, name string, b *game.Board, p game.Color, search rootSearch) (game.Move, bool, Stats) {
	var metrics collector
	metrics.Start()

	moves := b.LegalMoves(p)
	switch len(moves) {
	case 0:
		return game.Move{}, false, metrics.Complete(0, 0)
	case 1:
		return moves[0], true, metrics.Complete(0, 0)
	}
	orderMoves(moves)

	w := &walk{
		clock:    newClock(ctx, s.duration, s.checkInterval),
		evaluate: s.evaluate,
		root:     p,
	}

	best := moves[0] // Fallback when no depth completes
	completed := 0
	value := math.Inf(-1)

	maxDepth, step := s.depth, 2
	if s.duration <= 0 {
		step = maxDepth
	} else if maxDepth <= 0 {
		maxDepth = MaxDepth
	}
	maxDepth = max(maxDepth, 1)
	step = max(step, 1)

	for depth := min(step, maxDepth); depth <= maxDepth; depth += step {
		w.cut = false
		ties, v, err := search(w, b, moves, depth)
		if err != nil {
			log.Debug().Str("searcher", name).Int("depth", depth).Msg("search-aborted")
			break
		}
		best = ties[s.rng.Intn(len(ties))]
		completed, value = depth, v
		if !w.cut { // The whole game tree fit inside this depth
			break
		}
	}

	stats := metrics.Complete(completed, w.clock.nodes)
	log.Debug().
		Str("searcher", name).
		Str("player", p.String()).
		Stringer("move", best).
		Float64("value", value).
		Int("depth", completed).
		Int64("nodes", stats.Nodes).
		Dur("elapsed", stats.Elapsed).
		Msg("search-complete")
	return best, true, stats
}

// child returns a copy of b with m played by p and the turn handed over.
func child(b *game.Board, m game.Move, p game.Color) *game.Board {
	c := b.Clone()
	c.ApplyMove(m.Row, m.Col, p)
	c.SetTurn(p.Opponent())
	return c
}
