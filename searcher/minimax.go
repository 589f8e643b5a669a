package searcher

import (
	"context"
	"math"

	"othello/game"
)

// DefaultMinimaxDepth is the fixed search depth when none is configured.
const DefaultMinimaxDepth = 3

// Minimax is an exhaustive depth-limited search.
type Minimax struct {
	settings
}

func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{settings: newSettings(options)}
	if m.depth <= 0 && m.duration <= 0 {
		m.depth = DefaultMinimaxDepth
	}
	return m
}

func (m *Minimax) Name() string {
	return string(KindMinimax)
}

func (m *Minimax) FindMove(ctx context.Context, b *game.Board, p game.Color) (move game.Move, ok bool, stats Stats) {
	defer recoverSearch(m.Name(), &ok)
	return deepen(ctx, &m.settings, m.Name(), b, p, m.rootSearch)
}

func (m *Minimax) rootSearch(w *walk, b *game.Board, moves []game.Move, depth int) ([]game.Move, float64, error) {
	best := math.Inf(-1)
	var ties []game.Move
	for _, move := range moves {
		score, err := m.minimax(w, child(b, move, w.root), depth-1, false)
		if err != nil {
			return nil, 0, err
		}
		switch {
		case score > best:
			best = score
			ties = []game.Move{move}
		case score == best:
			ties = append(ties, move)
		}
	}
	return ties, best, nil
}

func (m *Minimax) minimax(w *walk, b *game.Board, depth int, maximizing bool) (float64, error) {
	if err := w.clock.tick(); err != nil {
		return 0, err
	}
	if b.IsTerminal() {
		return w.evaluate(b, w.root), nil
	}
	if depth <= 0 {
		w.cut = true
		return w.evaluate(b, w.root), nil
	}

	player := w.side(maximizing)
	moves := b.LegalMoves(player)
	if len(moves) == 0 { // Pass costs a ply
		return m.minimax(w, b, depth-1, !maximizing)
	}
	orderMoves(moves)

	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, move := range moves {
		score, err := m.minimax(w, child(b, move, player), depth-1, !maximizing)
		if err != nil {
			return 0, err
		}
		if maximizing {
			best = math.Max(best, score)
		} else {
			best = math.Min(best, score)
		}
	}
	return best, nil
}
