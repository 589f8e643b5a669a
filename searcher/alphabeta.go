package searcher

import (
	"context"
	"math"

	"othello/game"
)

// DefaultAlphaBetaDepth is the fixed search depth when none is configured.
const DefaultAlphaBetaDepth = 5

// AlphaBeta returns the same root values as Minimax while pruning branches
// that cannot change them.
type AlphaBeta struct {
	settings
}

func NewAlphaBeta(options ...Option) *AlphaBeta {
	a := &AlphaBeta{settings: newSettings(options)}
	if a.depth <= 0 && a.duration <= 0 {
		a.depth = DefaultAlphaBetaDepth
	}
	return a
}

func (a *AlphaBeta) Name() string {
	return string(KindAlphaBeta)
}

func (a *AlphaBeta) FindMove(ctx context.Context, b *game.Board, p game.Color) (move game.Move, ok bool, stats Stats) {
	defer recoverSearch(a.Name(), &ok)
	return deepen(ctx, &a.settings, a.Name(), b, p, a.rootSearch)
}

// rootSearch keeps alpha just below the best value so that siblings tying it
// are scored exactly and land in the tie set.
func (a *AlphaBeta) rootSearch(w *walk, b *game.Board, moves []game.Move, depth int) ([]game.Move, float64, error) {
	best := math.Inf(-1)
	alpha, beta := math.Inf(-1), math.Inf(1)
	var ties []game.Move
	for _, move := range moves {
		score, err := a.alphabeta(w, child(b, move, w.root), depth-1, alpha, beta, false)
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
		alpha = math.Nextafter(best, math.Inf(-1))
	}
	return ties, best, nil
}

func (a *AlphaBeta) alphabeta(w *walk, b *game.Board, depth int, alpha, beta float64, maximizing bool) (float64, error) {
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
		return a.alphabeta(w, b, depth-1, alpha, beta, !maximizing)
	}
	orderMoves(moves)

	if maximizing {
		value := math.Inf(-1)
		for _, move := range moves {
			score, err := a.alphabeta(w, child(b, move, player), depth-1, alpha, beta, false)
			if err != nil {
				return 0, err
			}
			value = math.Max(value, score)
			alpha = math.Max(alpha, value)
			if alpha >= beta {
				break
			}
		}
		return value, nil
	}

	value := math.Inf(1)
	for _, move := range moves {
		score, err := a.alphabeta(w, child(b, move, player), depth-1, alpha, beta, true)
		if err != nil {
			return 0, err
		}
		value = math.Min(value, score)
		beta = math.Min(beta, value)
		if alpha >= beta {
			break
		}
	}
	return value, nil
}
