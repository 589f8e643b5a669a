package experiments

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"othello/experiments/metrics"
	"othello/game"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Confidence     = 95 // Percent
	HistogramBins  = 10
	HistogramWidth = 40
)

// Side aggregates one player's searches over every game of a matchup.
type Side struct {
	Player      string
	Wins        int
	Moves       int
	DepthMean   float64
	DepthStdDev float64
	TimeMean    time.Duration
	TimeStdDev  time.Duration
}

type Summary struct {
	Games int
	Draws int
	A     Side
	B     Side
	// Score is A's share of the points, a draw being worth half a win.
	Score float64
	Low   float64
	High  float64
	// Distinct counts games with different move sequences.
	Distinct int
	// Times holds the search time of every move, in milliseconds.
	Times []float64
}

// ZVal returns the two-tailed z-value for a confidence level in percent.
func ZVal(confidence float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	return dist.Quantile((1 + confidence/100) / 2)
}

func Summarize(matchup Matchup, games []Game) Summary {
	s := Summary{
		Games: len(games),
		A:     Side{Player: matchup.A.String()},
		B:     Side{Player: matchup.B.String()},
	}

	var aMoves, bMoves []metrics.MoveMetric
	for _, g := range games {
		won, draw := g.AWon()
		switch {
		case draw:
			s.Draws++
		case won:
			s.A.Wins++
		default:
			s.B.Wins++
		}

		a := game.Dark
		if g.Swapped {
			a = game.Light
		}
		for _, move := range g.Moves {
			if move.Passed {
				continue
			}
			if move.Player == a {
				aMoves = append(aMoves, move)
			} else {
				bMoves = append(bMoves, move)
			}
		}
	}
	describe(&s.A, aMoves)
	describe(&s.B, bMoves)

	if s.Games > 0 {
		n := float64(s.Games)
		s.Score = (float64(s.A.Wins) + float64(s.Draws)/2) / n
		margin := ZVal(Confidence) * math.Sqrt(s.Score*(1-s.Score)/n)
		s.Low = math.Max(0, s.Score-margin)
		s.High = math.Min(1, s.Score+margin)
	}

	s.Distinct = len(lo.Uniq(lo.Map(games, func(g Game, _ int) uint64 {
		return g.Record.Fingerprint
	})))
	s.Times = lo.Map(append(aMoves, bMoves...), func(move metrics.MoveMetric, _ int) float64 {
		return float64(move.Elapsed) / float64(time.Millisecond)
	})
	return s
}

func describe(side *Side, moves []metrics.MoveMetric) {
	side.Moves = len(moves)
	if len(moves) == 0 {
		return
	}
	depths := lo.Map(moves, func(move metrics.MoveMetric, _ int) float64 { return float64(move.Depth) })
	times := lo.Map(moves, func(move metrics.MoveMetric, _ int) float64 { return float64(move.Elapsed) })

	side.DepthMean = stat.Mean(depths, nil)
	mean := stat.Mean(times, nil)
	side.TimeMean = time.Duration(mean)
	if len(moves) > 1 {
		side.DepthStdDev = stat.StdDev(depths, nil)
		side.TimeStdDev = time.Duration(stat.StdDev(times, nil))
	}
}

// Fprint writes a report of the summary with a histogram of move times.
func (s Summary) Fprint(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "player\twins\tmoves\tdepth\ttime\n")
	for _, side := range []Side{s.A, s.B} {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f ± %.2f\t%v ± %v\n",
			side.Player, side.Wins, side.Moves, side.DepthMean, side.DepthStdDev,
			side.TimeMean.Round(time.Microsecond), side.TimeStdDev.Round(time.Microsecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\ngames: %d, draws: %d, distinct: %d\n", s.Games, s.Draws, s.Distinct)
	fmt.Fprintf(w, "%s score: %.3f (%d%% CI %.3f - %.3f)\n", s.A.Player, s.Score, Confidence, s.Low, s.High)

	if len(s.Times) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\nmove time (ms):\n")
	h := histogram.Hist(HistogramBins, s.Times)
	return histogram.Fprint(w, h, histogram.Linear(HistogramWidth))
}
