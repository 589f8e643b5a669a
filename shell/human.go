package shell

import (
	"context"
	"errors"
	"fmt"

	"othello/config"
	"othello/game"
	"othello/searcher"
)

// human asks the shell for moves. Invalid or illegal input is reported and
// asked for again. Commands that end the game are kept for the shell loop.
type human struct {
	sc     *ShellController
	cancel context.CancelFunc
}

func (h *human) Name() string {
	return config.KindHuman
}

func (h *human) FindMove(ctx context.Context, b *game.Board, p game.Color) (game.Move, bool, searcher.Stats) {
	sc := h.sc
	sc.board = b
	sc.showMessage(b.String())
	sc.showMessage(fmt.Sprintf("%s (%c) to move", p, p.Symbol()))

	for {
		fields, err := sc.readFields()
		if err != nil {
			return h.abandon([]string{"exit"})
		}

		cmd := fields[0]
		switch cmd {
		case "new", "load", "exit", "quit":
			return h.abandon(fields)
		case "pass":
			if b.HasLegalMove(p) {
				sc.showError(errors.New("you have a legal move, passing is not allowed"))
				continue
			}
			return game.Move{}, false, searcher.Stats{}
		case "move":
			if len(fields) != 2 {
				sc.showError(errors.New("usage: move d3"))
				continue
			}
			cmd = fields[1]
		}

		move, err := game.ParseMove(cmd)
		if err != nil {
			if err := sc.execute(ctx, fields); err != nil {
				sc.showError(err)
			}
			continue
		}
		if !b.IsValidMove(move.Row, move.Col, p) {
			sc.showError(fmt.Errorf("%w: %s cannot play %s", game.ErrInvalidMove, p, move))
			continue
		}
		return move, true, searcher.Stats{}
	}
}

func (h *human) abandon(fields []string) (game.Move, bool, searcher.Stats) {
	h.sc.pending = fields
	h.cancel()
	return game.Move{}, false, searcher.Stats{}
}
