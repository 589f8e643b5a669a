package searcher

import (
	"math"

	"othello/game"
)

// Hyperparameters for MCTS

const Exploration = 1.41 // Exploration constant

const RolloutEpsilon = 0.3 // Probability of a random rollout move

const WIN = 1.0  // Reward for winning outcome
const DRAW = 0.5 // Reward for a drawn outcome

// PhaseBias scales the positional prior by game phase.
var PhaseBias = [...]float64{
	game.Early: 3.0,
	game.Mid:   1.5,
	game.Late:  0.5,
}

type uct struct {
	c   float64
	lnN float64
}

func newUCT(c float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{c: c, lnN: math.Log(N)}
}

// evaluate scores a child with wins w over n visits. The prior term
// decays as the child gathers visits.
func (u uct) evaluate(w float64, n float64, prior float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = w/n + c*sqrt(ln(N)/n) + prior/(n+1)
	return w/n + u.c*math.Sqrt(u.lnN/n) + prior/(n+1)
}
