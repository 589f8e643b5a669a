package searcher

import (
	"context"

	"othello/game"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// DefaultEpisodes is the MCTS budget when neither episodes nor a duration is
// configured.
const DefaultEpisodes = 1000

type MCTS struct {
	settings
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{settings: newSettings(options)}
	if m.episodes <= 0 && m.duration <= 0 {
		m.episodes = DefaultEpisodes
	}
	return m
}

func (m *MCTS) Name() string {
	return string(KindMCTS)
}

func (m *MCTS) FindMove(ctx context.Context, b *game.Board, p game.Color) (move game.Move, ok bool, stats Stats) {
	defer recoverSearch(m.Name(), &ok)

	var metrics collector
	metrics.Start()

	moves := b.LegalMoves(p)
	switch len(moves) {
	case 0:
		return game.Move{}, false, metrics.Complete(0, 0)
	case 1:
		return moves[0], true, metrics.Complete(0, 0)
	}

	root, rounds := m.search(ctx, b, p)
	stats = metrics.Complete(rounds, int64(rounds))
	if len(root.children) == 0 { // Cancelled before the first round
		return moves[0], true, stats
	}
	best := root.findBestChild()

	log.Debug().
		Str("player", p.String()).
		Stringer("move", best.move).
		Int("rounds", rounds).
		Float64("visit-share", root.Policy()[best.move]).
		Dur("elapsed", stats.Elapsed).
		Msg("mcts-move")
	return best.move, true, stats
}

// search grows a fresh tree for p to move on b until the episode budget or
// the duration runs out, and returns it with the number of completed rounds.
func (m *MCTS) search(ctx context.Context, b *game.Board, p game.Color) (*decision, int) {
	board := b.Clone()
	board.SetTurn(p)
	root := newDecision(nil, board, game.Move{}, game.Empty)

	clock := newClock(ctx, m.duration, 1)
	rounds := 0
	for m.duration > 0 || rounds < m.episodes {
		if clock.check() != nil {
			break
		}
		m.simulate(root)
		rounds++
	}
	return root, rounds
}

func (m *MCTS) simulate(root *decision) {
	newNode := m.selectThenExpand(root)
	outcome := m.rollout(newNode.board)
	backup(newNode, outcome)
}

func (m *MCTS) selectThenExpand(root *decision) *decision {
	node := root
	for !node.isTerminal() {
		if node.isExpandable() {
			return node.expand(m.rng)
		}
		node = node.pickChild(m.exploration)
	}
	return node
}

// rollout plays to the end of the game. With probability epsilon a move is
// drawn uniformly, otherwise the move on the best-weighted cell is played.
func (m *MCTS) rollout(b *game.Board) game.Outcome {
	board := b.Clone()
	for passes := 0; passes < 2; {
		player := board.Turn()
		moves := board.LegalMoves(player)
		if len(moves) == 0 {
			passes++
			board.Pass()
			continue
		}
		passes = 0

		var move game.Move
		if m.rng.Float64() < m.epsilon {
			move = moves[m.rng.Intn(len(moves))]
		} else {
			move = lo.MaxBy(moves, func(a, b game.Move) bool {
				return game.Weight(a) > game.Weight(b)
			})
		}
		board.ApplyMove(move.Row, move.Col, player)
		board.Pass()
	}
	return board.Winner()
}

func backup(newNode *decision, outcome game.Outcome) {
	node := newNode
	for node != nil {
		parent := node.Backup(outcome)
		node = parent
	}
}
