package engine

import (
	"context"

	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"
)

// MaxTurns caps the plies of one game, passes included.
const MaxTurns = 200

// Agent chooses moves for one side. Every searcher.Searcher is an Agent.
type Agent interface {
	FindMove(ctx context.Context, b *game.Board, p game.Color) (move game.Move, ok bool, stats searcher.Stats)
	Name() string
}

type Result struct {
	metrics.GameMetric
	Board *game.Board
	Moves []metrics.MoveMetric
}
