package metrics

import (
	"strings"
	"time"

	"othello/game"
	"othello/searcher"

	"github.com/cespare/xxhash/v2"
	"github.com/samber/lo"
)

type MoveMetric struct {
	Step   int
	Player game.Color
	Move   game.Move
	Passed bool
	searcher.Stats
}

// PlayerMetric summarises the searches one side made in a game. Passes are
// not counted.
type PlayerMetric struct {
	Agent    string
	Score    int
	Moves    int
	AvgDepth float64
	AvgTime  time.Duration
}

type GameMetric struct {
	Outcome    game.Outcome
	Dark       PlayerMetric
	Light      PlayerMetric
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int // Plies including passes
}

type Collector interface {
	Start(dark, light string)
	Add(move MoveMetric)
	Moves() []MoveMetric
	Complete(board *game.Board) GameMetric
}

type collector struct {
	dark      string
	light     string
	startTime time.Time
	moves     []MoveMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(dark, light string) {
	m.startTime = time.Now()
	m.dark = dark
	m.light = light
	m.moves = nil
}

func (m *collector) Add(move MoveMetric) {
	m.moves = append(m.moves, move)
}

func (m *collector) Moves() []MoveMetric {
	return m.moves
}

func (m *collector) Complete(board *game.Board) GameMetric {
	end := time.Now()
	dark, light := board.Score()
	return GameMetric{
		Outcome:    board.Winner(),
		Dark:       m.player(game.Dark, m.dark, dark),
		Light:      m.player(game.Light, m.light, light),
		StartTime:  m.startTime,
		EndTime:    end,
		Duration:   end.Sub(m.startTime),
		TotalMoves: len(m.moves),
	}
}

func (m *collector) player(color game.Color, agent string, score int) PlayerMetric {
	played := lo.Filter(m.moves, func(move MoveMetric, _ int) bool {
		return move.Player == color && !move.Passed
	})
	metric := PlayerMetric{Agent: agent, Score: score, Moves: len(played)}
	if len(played) == 0 {
		return metric
	}
	depth := lo.SumBy(played, func(move MoveMetric) int { return move.Depth })
	elapsed := lo.SumBy(played, func(move MoveMetric) time.Duration { return move.Elapsed })
	metric.AvgDepth = float64(depth) / float64(len(played))
	metric.AvgTime = elapsed / time.Duration(len(played))
	return metric
}

// Notation lists the plies of a game as board coordinates, "pass" for passes.
func Notation(moves []MoveMetric) []string {
	return lo.Map(moves, func(move MoveMetric, _ int) string {
		if move.Passed {
			return "pass"
		}
		return move.Move.String()
	})
}

// Fingerprint identifies a game by its move sequence.
func Fingerprint(moves []MoveMetric) uint64 {
	return xxhash.Sum64String(strings.Join(Notation(moves), " "))
}
