package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"othello/config"
	"othello/engine"
	"othello/experiments/metrics"
	"othello/game"
	"othello/history"
	"othello/searcher"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
)

const (
	ModePvP = "pvp"
	ModePvB = "pvb"
	ModeBvB = "bvb"

	HintDepth = 4
)

var errExit = errors.New("exit requested")

// lineReader is satisfied by *readline.Instance.
type lineReader interface {
	Readline() (string, error)
}

type ShellController struct {
	l     lineReader
	out   io.Writer
	cfg   *config.Config
	store history.Store

	board   *game.Board // Position shown by board, moves and hint
	start   *game.Board // Position the next game starts from
	pending []string // Command that interrupted a game
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(cfg *config.Config, store history.Store) (*ShellController, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mothello>\033[0m ",
		HistoryFile:     filepath.Join(os.TempDir(), "othello_readline.tmp"),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start readline: %w", err)
	}
	return newShellController(l, l.Stderr(), cfg, store), nil
}

func newShellController(l lineReader, out io.Writer, cfg *config.Config, store history.Store) *ShellController {
	return &ShellController{
		l:     l,
		out:   out,
		cfg:   cfg,
		store: store,
		board: game.New(),
	}
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// readFields reads the next non-empty line and splits it like a shell would.
func (sc *ShellController) readFields() ([]string, error) {
	for {
		line, err := sc.l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil, errExit
			}
			continue
		}
		if err != nil {
			return nil, errExit
		}
		fields, err := shellquote.Split(strings.TrimSpace(line))
		if err != nil {
			sc.showError(err)
			continue
		}
		if len(fields) > 0 {
			fields[0] = strings.ToLower(fields[0])
			return fields, nil
		}
	}
}

// Queue makes line the first command Loop runs.
func (sc *ShellController) Queue(line string) error {
	fields, err := shellquote.Split(line)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		fields[0] = strings.ToLower(fields[0])
		sc.pending = fields
	}
	return nil
}

// Loop reads and runs commands until exit or end of input.
func (sc *ShellController) Loop(ctx context.Context) error {
	if closer, ok := sc.l.(io.Closer); ok {
		defer closer.Close()
	}
	sc.showMessage(`Othello. Type "help" for commands.`)

	for {
		fields := sc.pending
		sc.pending = nil
		if fields == nil {
			var err error
			if fields, err = sc.readFields(); err != nil {
				break
			}
		}

		err := sc.execute(ctx, fields)
		if errors.Is(err, errExit) {
			break
		}
		if err != nil {
			sc.showError(err)
		}
	}
	log.Debug().Msg("exiting-readline-loop")
	return nil
}

func (sc *ShellController) execute(ctx context.Context, fields []string) error {
	switch cmd, args := fields[0], fields[1:]; cmd {
	case "exit", "quit":
		return errExit
	case "help":
		sc.showMessage(usage)
	case "new":
		mode := ModePvB
		if len(args) > 0 {
			mode = strings.ToLower(args[0])
		}
		return sc.play(ctx, mode)
	case "load":
		return sc.load(args)
	case "board":
		sc.showMessage(sc.board.String())
	case "moves":
		sc.showMoves()
	case "hint":
		sc.showHint(ctx)
	case "history":
		return sc.showHistory(ctx, args)
	case "move", "pass":
		return errors.New("no game in progress, start one with new")
	default:
		if _, err := game.ParseMove(cmd); err == nil {
			return errors.New("no game in progress, start one with new")
		}
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// load takes eight rows and the side to move, e.g.
// load ........ ........ ........ ...OX... ...XO... ........ ........ ........ dark
func (sc *ShellController) load(args []string) error {
	if len(args) != game.Size+1 {
		return fmt.Errorf("load needs %d rows and the side to move", game.Size)
	}
	turn, err := game.ParseColor(args[game.Size])
	if err != nil {
		return err
	}
	b, err := game.Parse(args[:game.Size], turn)
	if err != nil {
		return err
	}
	sc.board, sc.start = b, b.Clone()
	sc.showMessage(b.String())
	sc.showMessage("Position loaded, the next game starts here.")
	return nil
}

func (sc *ShellController) showMoves() {
	p := sc.board.Turn()
	moves := sc.board.LegalMoves(p)
	if len(moves) == 0 {
		sc.showMessage(p.String() + " has no legal move")
		return
	}
	notation := make([]string, len(moves))
	for i, m := range moves {
		notation[i] = m.String()
	}
	sc.showMessage(p.String() + " can play: " + strings.Join(notation, " "))
}

func (sc *ShellController) showHint(ctx context.Context) {
	p := sc.board.Turn()
	move, ok, stats := searcher.NewAlphaBeta(searcher.WithDepth(HintDepth)).FindMove(ctx, sc.board, p)
	if !ok {
		sc.showMessage(p.String() + " has no legal move")
		return
	}
	sc.showMessage(fmt.Sprintf("hint: %s (depth %d, %d nodes)", move, stats.Depth, stats.Nodes))
}

func (sc *ShellController) showHistory(ctx context.Context, args []string) error {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("history limit must be a number: %w", err)
		}
		limit = n
	}
	records, err := sc.store.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		sc.showMessage("no games played yet")
		return nil
	}
	for _, r := range records {
		sc.showMessage(fmt.Sprintf("#%d %s %s  %s %d - %d %s  winner: %s",
			r.ID, r.Timestamp.Format("2006-01-02 15:04"), r.Mode,
			r.Dark.Agent, r.Dark.Score, r.Light.Score, r.Light.Agent, r.Winner))
	}
	return nil
}

// agents returns the two sides of a game in mode. Humans get cancel so that
// a command typed during their turn can abandon the game.
func (sc *ShellController) agents(mode string, cancel context.CancelFunc) (engine.Agent, engine.Agent, error) {
	human := &human{sc: sc, cancel: cancel}
	bot := func(p config.Player) (engine.Agent, error) {
		if p.IsHuman() {
			p = config.Player{Kind: string(searcher.KindAlphaBeta)}
		}
		return p.Searcher()
	}

	switch mode {
	case ModePvP:
		return human, human, nil
	case ModePvB:
		light, err := bot(sc.cfg.Light)
		return human, light, err
	case ModeBvB:
		dark, err := bot(sc.cfg.Dark)
		if err != nil {
			return nil, nil, err
		}
		light, err := bot(sc.cfg.Light)
		return dark, light, err
	}
	return nil, nil, fmt.Errorf("unknown mode %q, use pvp, pvb or bvb", mode)
}

func (sc *ShellController) play(ctx context.Context, mode string) error {
	gameCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	dark, light, err := sc.agents(mode, cancel)
	if err != nil {
		return err
	}

	options := []engine.Option{engine.WithObserver(sc.observer(mode))}
	if sc.start != nil {
		options = append(options, engine.WithBoard(sc.start))
		sc.board = sc.start
		sc.start = nil
	} else {
		sc.board = game.New()
	}

	sc.showMessage(fmt.Sprintf("New %s game: %s (X) vs %s (O)", mode, dark.Name(), light.Name()))
	if mode == ModeBvB {
		sc.showMessage(sc.board.String())
	}

	result, err := engine.New(dark, light, options...).Run(gameCtx)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.Canceled) {
			sc.showMessage("Game abandoned.")
			return nil
		}
		return err
	}

	sc.board = result.Board
	sc.showMessage(result.Board.String())
	switch result.Outcome {
	case game.Draw:
		sc.showMessage(fmt.Sprintf("Draw %d - %d.", result.Dark.Score, result.Light.Score))
	case game.Undecided:
		sc.showMessage("Game stopped at the turn limit.")
	default:
		sc.showMessage(fmt.Sprintf("%s wins %d - %d.", result.Outcome, result.Dark.Score, result.Light.Score))
	}

	if err := sc.store.Append(ctx, history.FromResult(mode, 1, result)); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

func (sc *ShellController) observer(mode string) func(*game.Board, metrics.MoveMetric) {
	return func(b *game.Board, move metrics.MoveMetric) {
		sc.board = b
		if move.Passed {
			sc.showMessage(fmt.Sprintf("PASS: %s has no move", move.Player))
			return
		}
		sc.showMessage(fmt.Sprintf("%s plays %s", move.Player, move.Move))
		if mode == ModeBvB {
			sc.showMessage(b.String())
		}
	}
}
