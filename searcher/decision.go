package searcher

import (
	"math"

	"othello/game"

	"golang.org/x/exp/rand"
)

// decision is a node of the MCTS tree. Its board never changes once built.
type decision struct {
	parent   *decision
	board    *game.Board
	move     game.Move  // Move that led here from parent
	mover    game.Color // Player who made move, Empty at the root
	untried  []game.Move
	children []*decision
	wins     float64
	visits   int
	prior    float64
}

// newDecision takes ownership of board. A side to move without a legal move
// passes here, so every non-terminal node has something to expand.
func newDecision(parent *decision, board *game.Board, move game.Move, mover game.Color) *decision {
	moves := board.LegalMoves(board.Turn())
	if len(moves) == 0 {
		board.Pass()
		moves = board.LegalMoves(board.Turn()) // Still empty when the game is over
	}

	d := &decision{
		parent:  parent,
		board:   board,
		move:    move,
		mover:   mover,
		untried: moves,
	}
	if parent != nil {
		d.prior = game.Weight(move) / 100 * PhaseBias[game.PhaseOf(board)]
	}
	return d
}

func (d *decision) isTerminal() bool {
	return len(d.untried) == 0 && len(d.children) == 0
}

func (d *decision) isExpandable() bool {
	return len(d.untried) > 0
}

// expand plays a random untried move and adds the resulting child.
func (d *decision) expand(rng *rand.Rand) *decision {
	i := rng.Intn(len(d.untried))
	move := d.untried[i]
	d.untried[i] = d.untried[len(d.untried)-1]
	d.untried = d.untried[:len(d.untried)-1]

	mover := d.board.Turn()
	board := d.board.Clone()
	board.ApplyMove(move.Row, move.Col, mover)
	board.Pass()

	child := newDecision(d, board, move, mover)
	d.children = append(d.children, child)
	return child
}

func (d *decision) pickChild(c float64) *decision {
	if d.visits == 0 {
		panic("node has children but no visits")
	}

	policy := newUCT(c, float64(d.visits))

	var best *decision
	maxScore := math.Inf(-1)
	for _, child := range d.children {
		score := child.score(policy)
		if score == math.Inf(1) {
			return child
		}
		if score > maxScore {
			maxScore = score
			best = child
		}
	}
	return best
}

func (d *decision) score(policy *uct) float64 {
	if d.visits == 0 {
		return math.Inf(1)
	}
	return policy.evaluate(d.wins, float64(d.visits), d.prior)
}

// Backup credits the outcome to this node from its mover's view and returns
// the parent.
func (d *decision) Backup(outcome game.Outcome) *decision {
	d.visits++
	switch {
	case d.mover == game.Empty:
	case outcome == game.Draw:
		d.wins += DRAW
	case outcome.Winner() == d.mover:
		d.wins += WIN
	}
	return d.parent
}

func (d *decision) findBestChild() *decision {
	if len(d.children) == 0 {
		panic("node has no children")
	}

	best := d.children[0]
	for _, child := range d.children[1:] {
		if child.visits > best.visits {
			best = child
		}
	}
	return best
}

// Policy returns each expanded move's share of the root visits.
func (d *decision) Policy() map[game.Move]float64 {
	total := 0
	for _, child := range d.children {
		total += child.visits
	}
	policy := make(map[game.Move]float64, len(d.children))
	for _, child := range d.children {
		if total > 0 {
			policy[child.move] = float64(child.visits) / float64(total)
		}
	}
	return policy
}
