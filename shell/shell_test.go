package shell

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"othello/config"
	"othello/history"

	"github.com/stretchr/testify/require"
)

type script struct {
	lines []string
}

func (s *script) Readline() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

const endgame = `load .OOOOOOX OOXXXXXX OXOXXXXX OXXOXXXX OOOOOOOO OOOOOOXO OOOOOXOO OXXXXX.O dark`

func newTestShell(t *testing.T, lines ...string) (*ShellController, *bytes.Buffer, history.Store) {
	t.Helper()
	store, err := history.NewJSONStore(filepath.Join(t.TempDir(), "game_history.json"))
	require.NoError(t, err)
	cfg := &config.Config{
		Dark:  config.Player{Kind: "alphabeta", Depth: 1, Seed: 1},
		Light: config.Player{Kind: "minimax", Depth: 1, Seed: 2},
	}
	out := &bytes.Buffer{}
	return newShellController(&script{lines: lines}, out, cfg, store), out, store
}

func TestLoop(t *testing.T) {
	t.Run("bot game is saved", func(t *testing.T) {
		sc, out, store := newTestShell(t, "new bvb", "history")

		require.NoError(t, sc.Loop(context.Background()))

		records, err := store.List(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, ModeBvB, records[0].Mode)
		require.Equal(t, "alphabeta", records[0].Dark.Agent)
		require.Contains(t, out.String(), "#1 ")
		require.True(t, sc.board.IsTerminal(), "Board should show the final position")
	})

	t.Run("human plays a loaded position", func(t *testing.T) {
		sc, out, store := newTestShell(t, endgame, "new pvp", "pass", "c4", "hint", "g8", "move a1")

		require.NoError(t, sc.Loop(context.Background()))

		output := out.String()
		require.Contains(t, output, "passing is not allowed")
		require.Contains(t, output, "invalid move: dark cannot play c4")
		require.Contains(t, output, "hint: g8")
		require.Contains(t, output, "PASS: light has no move")
		require.Contains(t, output, "dark wins 40 - 24.")

		records, err := store.List(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, []string{"g8", "pass", "a1"}, records[0].Moves)
		require.Equal(t, "human", records[0].Light.Agent)
	})

	t.Run("command during a game abandons it", func(t *testing.T) {
		sc, out, store := newTestShell(t, "new pvb", "d3", "new pvp", "exit")

		require.NoError(t, sc.Loop(context.Background()))

		output := out.String()
		require.Contains(t, output, "dark plays d3")
		require.Contains(t, output, "light plays")
		require.Equal(t, 2, strings.Count(output, "Game abandoned."))

		records, err := store.List(context.Background(), 0)
		require.NoError(t, err)
		require.Empty(t, records, "Abandoned games should not be saved")
	})

	t.Run("end of input during a game", func(t *testing.T) {
		sc, out, _ := newTestShell(t, "new pvp")

		require.NoError(t, sc.Loop(context.Background()))
		require.Contains(t, out.String(), "Game abandoned.")
	})
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		fields []string
		want   string
		err    string
	}{
		{name: "moves", fields: []string{"moves"}, want: "dark can play: d3 c4 f5 e6"},
		{name: "board", fields: []string{"board"}, want: "4 . . . O X . . ."},
		{name: "help", fields: []string{"help"}, want: "new [pvp|pvb|bvb]"},
		{name: "empty history", fields: []string{"history"}, want: "no games played yet"},
		{name: "move outside a game", fields: []string{"d3"}, err: "no game in progress"},
		{name: "unknown command", fields: []string{"castle"}, err: `unknown command "castle"`},
		{name: "unknown mode", fields: []string{"new", "evb"}, err: `unknown mode "evb"`},
		{name: "short load", fields: []string{"load", "........"}, err: "load needs 8 rows"},
		{name: "bad history limit", fields: []string{"history", "all"}, err: "must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, out, _ := newTestShell(t)

			err := sc.execute(ctx, tt.fields)

			if tt.err != "" {
				require.ErrorContains(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Contains(t, out.String(), tt.want)
		})
	}
}

func TestQueue(t *testing.T) {
	sc, out, store := newTestShell(t)

	require.NoError(t, sc.Queue("NEW bvb"))
	require.NoError(t, sc.Loop(context.Background()))

	require.Contains(t, out.String(), "New bvb game: alphabeta (X) vs minimax (O)")
	records, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestExit(t *testing.T) {
	sc, _, _ := newTestShell(t)

	require.ErrorIs(t, sc.execute(context.Background(), []string{"quit"}), errExit)
}
