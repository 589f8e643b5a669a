package searcher

import (
	"math"
	"time"

	"othello/game"

	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

const (
	// MaxDepth caps iterative deepening when no depth limit is configured.
	MaxDepth = 64
	// CheckInterval is how many nodes are visited between clock samples.
	CheckInterval = 1000
)

type Option func(s *settings)

type settings struct {
	depth         int
	duration      time.Duration
	episodes      int
	evaluate      game.Evaluate
	rng           *rand.Rand
	checkInterval int
	exploration   float64
	epsilon       float64
}

func newSettings(options []Option) settings {
	s := settings{ // Default values
		evaluate:      game.EvaluateHeuristic,
		checkInterval: CheckInterval,
		exploration:   Exploration,
		epsilon:       RolloutEpsilon,
	}
	for _, option := range options {
		option(&s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(frand.Uint64n(math.MaxUint64)))
	}
	return s
}

// WithDepth sets the search depth. With a duration it caps iterative
// deepening instead.
func WithDepth(depth int) Option {
	return func(s *settings) {
		if depth > 0 {
			s.depth = depth
		}
	}
}

// WithDuration bounds each decision by wall-clock time.
func WithDuration(duration time.Duration) Option {
	return func(s *settings) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

// WithEpisodes sets the number of MCTS rounds when no duration is set.
func WithEpisodes(episodes int) Option {
	return func(s *settings) {
		if episodes > 0 {
			s.episodes = episodes
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(s *settings) {
		if evaluate != nil {
			s.evaluate = evaluate
		}
	}
}

// WithSeed gives the searcher its own deterministic random source.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func WithCheckInterval(nodes int) Option {
	return func(s *settings) {
		if nodes > 0 {
			s.checkInterval = nodes
		}
	}
}

// WithExploration sets the UCT exploration constant.
func WithExploration(c float64) Option {
	return func(s *settings) {
		if c >= 0 {
			s.exploration = c
		}
	}
}

// WithRolloutEpsilon sets the probability of a uniformly random rollout move.
func WithRolloutEpsilon(epsilon float64) Option {
	return func(s *settings) {
		if epsilon >= 0 && epsilon <= 1 {
			s.epsilon = epsilon
		}
	}
}
