package engine

import (
	"context"

	"othello/experiments/metrics"
	"othello/game"

	"github.com/rs/zerolog/log"
)

type Option func(e *Engine)

// Engine plays one game between two agents on a local board.
type Engine struct {
	board    *game.Board
	agents   [2]Agent // Dark, Light
	maxTurns int
	observer func(b *game.Board, move metrics.MoveMetric)
	metrics  metrics.Collector
}

// WithBoard starts the game from b, with b's side to move. b is copied.
func WithBoard(b *game.Board) Option {
	return func(e *Engine) {
		if b != nil {
			e.board = b.Clone()
		}
	}
}

func WithMaxTurns(turns int) Option {
	return func(e *Engine) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

// WithObserver is called after every ply with the board and what happened.
func WithObserver(observer func(b *game.Board, move metrics.MoveMetric)) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

func New(dark, light Agent, options ...Option) *Engine {
	if dark == nil || light == nil {
		panic("both sides need an agent")
	}
	e := &Engine{ // Default values
		board:    game.New(),
		agents:   [2]Agent{dark, light},
		maxTurns: MaxTurns,
		observer: func(*game.Board, metrics.MoveMetric) {},
		metrics:  metrics.NewCollector(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *Engine) agent(p game.Color) Agent {
	if p == game.Light {
		return e.agents[1]
	}
	return e.agents[0]
}

// Board returns a copy of the current position.
func (e *Engine) Board() *game.Board {
	return e.board.Clone()
}

// Run plays until the game is over or MaxTurns plies have been played. A side
// without a legal move passes. So does an agent that returns no move or an
// illegal one. Cancelling ctx stops the game after the current ply and
// returns the partial result with ctx's error.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	e.metrics.Start(e.agents[0].Name(), e.agents[1].Name())
	log.Info().
		Str("dark", e.agents[0].Name()).
		Str("light", e.agents[1].Name()).
		Str("turn", e.board.Turn().String()).
		Msg("game-starting")

	for step := 1; !e.board.IsTerminal(); step++ {
		if step > e.maxTurns {
			log.Warn().Int("turns", e.maxTurns).Msg("turn-limit-reached")
			break
		}
		if err := ctx.Err(); err != nil {
			return e.result(), err
		}

		player := e.board.Turn()
		move := metrics.MoveMetric{Step: step, Player: player}
		if !e.board.HasLegalMove(player) {
			move.Passed = true
			log.Info().Int("step", step).Str("player", player.String()).Msg("no-legal-move-passing")
		} else {
			agent := e.agent(player)
			m, ok, stats := agent.FindMove(ctx, e.board.Clone(), player)
			if err := ctx.Err(); err != nil {
				return e.result(), err
			}
			move.Stats = stats
			switch {
			case !ok:
				move.Passed = true
				log.Warn().Int("step", step).Str("agent", agent.Name()).Msg("agent-returned-no-move-passing")
			case !e.board.ApplyMove(m.Row, m.Col, player):
				move.Passed = true
				log.Error().Int("step", step).Str("agent", agent.Name()).Stringer("move", m).Msg("illegal-move-passing")
			default:
				move.Move = m
				log.Debug().
					Int("step", step).
					Str("player", player.String()).
					Stringer("move", m).
					Int("depth", stats.Depth).
					Dur("elapsed", stats.Elapsed).
					Msg("move-played")
			}
		}

		e.board.Pass()
		e.metrics.Add(move)
		e.observer(e.board.Clone(), move)
	}

	result := e.result()
	log.Info().
		Str("outcome", result.Outcome.String()).
		Int("dark", result.Dark.Score).
		Int("light", result.Light.Score).
		Int("plies", result.TotalMoves).
		Msg("game-over")
	return result, nil
}

func (e *Engine) result() Result {
	return Result{
		GameMetric: e.metrics.Complete(e.board),
		Board:      e.board.Clone(),
		Moves:      e.metrics.Moves(),
	}
}
