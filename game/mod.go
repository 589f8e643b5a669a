package game

import "fmt"

// Size is the width and height of the board.
const Size = 8

// Color is the content of a cell, and doubles as the identity of a player.
type Color int8

const (
	Empty Color = iota
	Dark
	Light
)

func (c Color) Opponent() Color {
	switch c {
	case Dark:
		return Light
	case Light:
		return Dark
	default:
		return Empty
	}
}

func (c Color) String() string {
	switch c {
	case Dark:
		return "dark"
	case Light:
		return "light"
	default:
		return "empty"
	}
}

// Symbol is the single character used when rendering or parsing boards.
func (c Color) Symbol() byte {
	switch c {
	case Dark:
		return 'X'
	case Light:
		return 'O'
	default:
		return '.'
	}
}

// ParseColor accepts the names produced by Color.String and the board symbols.
func ParseColor(s string) (Color, error) {
	switch s {
	case "dark", "black", "X", "x", "B", "b":
		return Dark, nil
	case "light", "white", "O", "o", "W", "w":
		return Light, nil
	}
	return Empty, fmt.Errorf("unknown color %q", s)
}

// Outcome of a game, only decided once the board is terminal.
type Outcome int8

const (
	Undecided Outcome = iota
	DarkWins
	LightWins
	Draw
)

// Winner returns the winning color, or Empty on a draw or an undecided game.
func (o Outcome) Winner() Color {
	switch o {
	case DarkWins:
		return Dark
	case LightWins:
		return Light
	default:
		return Empty
	}
}

func (o Outcome) String() string {
	switch o {
	case DarkWins:
		return "dark"
	case LightWins:
		return "light"
	case Draw:
		return "draw"
	default:
		return "undecided"
	}
}

// Evaluate scores a board from the perspective of player p. Higher is better
// for p.
type Evaluate func(b *Board, p Color) float64
