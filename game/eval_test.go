package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, turn Color, rows ...string) *Board {
	t.Helper()
	b, err := Parse(rows, turn)
	require.NoError(t, err)
	return b
}

func TestPhaseOf(t *testing.T) {
	require.Equal(t, Early, PhaseOf(New()))

	mid := mustParse(t, Dark,
		"XXXXXXXX", "XXXXXXXX", "XXXX....", "........",
		"........", "........", "........", "........")
	require.Equal(t, 20, mid.Discs())
	require.Equal(t, Mid, PhaseOf(mid))

	late := mustParse(t, Dark,
		"XXXXXXXX", "XXXXXXXX", "XXXXXXXX", "XXXXXXXX",
		"XXXXXXXX", "XXXXX...", "........", "........")
	require.Equal(t, 45, late.Discs())
	require.Equal(t, Late, PhaseOf(late))
}

func TestEvaluateHeuristic(t *testing.T) {
	t.Run("symmetric starting position", func(t *testing.T) {
		b := New()

		require.Equal(t, EvaluateHeuristic(b, Dark), EvaluateHeuristic(b, Light))
	})

	t.Run("zero sum", func(t *testing.T) {
		b := New()
		b.Play(Move{Row: 2, Col: 3})
		b.Play(Move{Row: 2, Col: 2})

		require.InDelta(t, 0, EvaluateHeuristic(b, Dark)+EvaluateHeuristic(b, Light), 1e-9)
	})

	t.Run("terminal win dominates", func(t *testing.T) {
		b := mustParse(t, Light,
			"XXXXXXXX", "XXXXXXXX", "XXXXXXXX", "XXXXXXXX",
			"OOOOOOOO", "OOOOOOOO", "OOOOOOOO", "OOOOOOOX")

		require.Equal(t, WinScore+2, EvaluateHeuristic(b, Dark))
		require.Equal(t, -WinScore-2, EvaluateHeuristic(b, Light))
	})

	t.Run("terminal draw", func(t *testing.T) {
		b := mustParse(t, Dark,
			"X.......", "........", "........", "........",
			"........", "........", "........", ".......O")

		require.Equal(t, 0.0, EvaluateHeuristic(b, Dark))
	})

	t.Run("corner beats X-square", func(t *testing.T) {
		corner := mustParse(t, Light,
			"X.......", ".O......", "..OX....", "...XO...",
			"...OX...", "........", "........", "........")
		xSquare := mustParse(t, Light,
			"........", ".X......", "..XX....", "...XO...",
			"...OX...", "........", "........", "........")

		require.Greater(t, EvaluateHeuristic(corner, Dark), EvaluateHeuristic(xSquare, Dark))
	})
}

func TestCountStable(t *testing.T) {
	t.Run("corner runs stop at the first mismatch", func(t *testing.T) {
		b := mustParse(t, Dark,
			"XXXO....", "X.......", "X.......", "O.......",
			"........", "........", "........", "........")

		// corner + 2 along the row + 2 along the column
		require.Equal(t, 5, b.countStable(Dark))
		require.Equal(t, 0, b.countStable(Light))
	})

	t.Run("all four corners", func(t *testing.T) {
		b := mustParse(t, Dark,
			"X......X", "........", "........", "........",
			"........", "........", "........", "O......O")

		require.Equal(t, 2, b.countStable(Dark))
		require.Equal(t, 2, b.countStable(Light))
	})

	t.Run("full edge is counted from both corners", func(t *testing.T) {
		b := mustParse(t, Dark,
			"XXXXXXXX", "........", "........", "........",
			"........", "........", "........", "........")

		// each corner sees the six cells between them
		require.Equal(t, 14, b.countStable(Dark))
	})
}

func TestEvaluateDiscs(t *testing.T) {
	b := New()
	b.Play(Move{Row: 2, Col: 3})

	require.Equal(t, 3.0, EvaluateDiscs(b, Dark))
	require.Equal(t, -3.0, EvaluateDiscs(b, Light))
}

func TestWeight(t *testing.T) {
	require.Equal(t, 100.0, Weight(Move{0, 0}))
	require.Equal(t, -50.0, Weight(Move{6, 6}))
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			require.Equal(t, Weights[r][c], Weights[r][Size-1-c], "weights should mirror left to right")
			require.Equal(t, Weights[r][c], Weights[Size-1-r][c], "weights should mirror top to bottom")
		}
	}
}
