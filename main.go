package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"othello/config"
	"othello/experiments"
	"othello/history"
	"othello/shell"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: othello [command] [flags]

commands:
  play     interactive shell (default)
  arena    play bot-vs-bot series and report statistics
  history  list saved games
  config   print the effective configuration`

func main() {
	args := os.Args[1:]
	command := "play"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch command {
	case "play":
		err = play(ctx, args)
	case "arena":
		err = arena(ctx, args)
	case "history":
		err = listHistory(ctx, args)
	case "config":
		err = dumpConfig(args)
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("command", command).Msg("command-failed")
		os.Exit(1)
	}
}

// setup parses the common flags, loads the configuration and configures
// logging from it.
func setup(fs *flag.FlagSet, args []string) (*config.Config, error) {
	path := fs.String("config", "", "path to a YAML config file (default ./othello.yaml if present)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load(*path)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Debug().Str("config", cfg.Dark.String()+" vs "+cfg.Light.String()).Msg("config-loaded")
	return cfg, nil
}

func play(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	mode := fs.String("mode", "", "start a game right away: pvp, pvb or bvb")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	sc, err := shell.NewShellController(cfg, store)
	if err != nil {
		return err
	}
	if *mode != "" {
		if err := sc.Queue("new " + *mode); err != nil {
			return err
		}
	}
	return sc.Loop(ctx)
}

func arena(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("arena", flag.ExitOnError)
	games := fs.Int("games", 0, "number of games (overrides arena.games)")
	workers := fs.Int("workers", 0, "games played in parallel (overrides arena.workers)")
	output := fs.String("output", "", "directory for CSV results (overrides arena.output)")
	save := fs.Bool("save", true, "append the games to the match history")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *games > 0 {
		cfg.Arena.Games = *games
	}
	if *workers > 0 {
		cfg.Arena.Workers = *workers
	}
	if *output != "" {
		cfg.Arena.Output = *output
	}

	matchup := experiments.Matchup{A: cfg.Dark, B: cfg.Light, SwapColors: cfg.Arena.SwapColors}
	log.Info().
		Stringer("a", matchup.A).
		Stringer("b", matchup.B).
		Int("games", cfg.Arena.Games).
		Int("workers", cfg.Arena.Workers).
		Msg("arena-starting")

	played, err := experiments.Run(ctx, matchup, cfg.Arena.Games, cfg.Arena.Workers)
	if err != nil {
		return err
	}

	if err := experiments.Summarize(matchup, played).Fprint(os.Stdout); err != nil {
		return err
	}
	dir, err := experiments.Write(cfg.Arena.Output, "arena", played)
	if err != nil {
		return err
	}
	fmt.Printf("\nresults written to %s\n", dir)

	if !*save {
		return nil
	}
	store, err := history.Open(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, g := range played {
		if err := store.Append(ctx, history.FromResult(shell.ModeBvB, g.ID, g.Result())); err != nil {
			return err
		}
	}
	return nil
}

func listHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 10, "number of games to list, 0 for all")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(ctx, *limit)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Printf("#%-4d %s  %-4s %-28s %2d - %-2d %-28s winner: %-5s moves: %d\n",
			r.ID, r.Timestamp.Local().Format("2006-01-02 15:04:05"), r.Mode,
			r.Dark.Agent, r.Dark.Score, r.Light.Score, r.Light.Agent, r.Winner, len(r.Moves))
	}
	return nil
}

func dumpConfig(args []string) error {
	cfg, err := setup(flag.NewFlagSet("config", flag.ExitOnError), args)
	if err != nil {
		return err
	}
	return cfg.Dump(os.Stdout)
}
