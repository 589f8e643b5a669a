package experiments

import (
	"context"
	"errors"
	"fmt"
	"math"

	"othello/config"
	"othello/engine"
	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

var ErrHumanPlayer = errors.New("arena games need two searchers")

// Matchup pits two configured searchers against each other. With colour
// swapping A plays light in every other game.
type Matchup struct {
	A          config.Player
	B          config.Player
	SwapColors bool
}

// Game is one finished arena game.
type Game struct {
	ID      int
	Swapped bool // A played light
	Record  metrics.GameRecord
	Moves   []metrics.MoveMetric
}

// AWon reports whether player A won the game, and whether it was drawn. A
// game stopped by the turn limit counts as a draw.
func (g Game) AWon() (won, draw bool) {
	winner := g.Record.Outcome.Winner()
	if winner == game.Empty {
		return false, true
	}
	a := game.Dark
	if g.Swapped {
		a = game.Light
	}
	return winner == a, false
}

// Result rebuilds the engine result, without the final board.
func (g Game) Result() engine.Result {
	return engine.Result{GameMetric: g.Record.GameMetric, Moves: g.Moves}
}

// Run plays games independent games of the matchup on up to workers
// goroutines. Each game gets fresh searchers with their own seeds.
func Run(ctx context.Context, matchup Matchup, games, workers int) ([]Game, error) {
	if matchup.A.IsHuman() || matchup.B.IsHuman() {
		return nil, ErrHumanPlayer
	}
	if workers <= 0 {
		workers = 1
	}

	log.Info().
		Stringer("a", matchup.A).
		Stringer("b", matchup.B).
		Int("games", games).
		Int("workers", workers).
		Msg("starting-arena")

	results := make([]Game, games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < games; i++ {
		i := i
		g.Go(func() error {
			result, err := runGame(ctx, matchup, i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = result
			log.Info().
				Int("game", i+1).
				Str("outcome", result.Record.Outcome.String()).
				Int("dark", result.Record.Dark.Score).
				Int("light", result.Record.Light.Score).
				Msg("completed-game")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Int("games", games).Msg("completed-arena")
	return results, nil
}

func runGame(ctx context.Context, matchup Matchup, i int) (Game, error) {
	dark, light := matchup.A, matchup.B
	swapped := matchup.SwapColors && i%2 == 1
	if swapped {
		dark, light = light, dark
	}

	darkSeed, lightSeed := seed(dark, 2*i), seed(light, 2*i+1)
	darkAgent, err := dark.Searcher(searcher.WithSeed(darkSeed))
	if err != nil {
		return Game{}, err
	}
	lightAgent, err := light.Searcher(searcher.WithSeed(lightSeed))
	if err != nil {
		return Game{}, err
	}

	result, err := engine.New(named{darkAgent, dark.String()}, named{lightAgent, light.String()}).Run(ctx)
	if err != nil {
		return Game{}, err
	}

	return Game{
		ID:      i + 1,
		Swapped: swapped,
		Record: metrics.GameRecord{
			ID:          i + 1,
			DarkSeed:    darkSeed,
			LightSeed:   lightSeed,
			Fingerprint: metrics.Fingerprint(result.Moves),
			GameMetric:  result.GameMetric,
		},
		Moves: result.Moves,
	}, nil
}

// seed derives a per-game seed from a configured one, or draws a fresh one
// so that the game can be replayed from the records.
func seed(p config.Player, offset int) uint64 {
	if p.Seed != 0 {
		return p.Seed + uint64(offset)
	}
	return frand.Uint64n(math.MaxUint64) + 1
}

// named reports a searcher under its configured description.
type named struct {
	searcher.Searcher
	name string
}

func (n named) Name() string {
	return n.name
}

// Write stores the games and their moves as CSV under root and returns the
// directory used.
func Write(root, name string, games []Game) (string, error) {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return "", err
	}

	gameRecords := make([]metrics.GameRecord, 0, len(games))
	moveRecords := []metrics.MoveRecord{}
	for _, g := range games {
		gameRecords = append(gameRecords, g.Record)
		for _, mm := range g.Moves {
			moveRecords = append(moveRecords, metrics.MoveRecord{
				Game:       g.ID,
				MoveMetric: mm,
			})
		}
	}

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", err
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", err
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}
