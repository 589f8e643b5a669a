package game

import (
	"fmt"
	"strings"
)

var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Board is an 8x8 Othello position plus the player to move. It is a plain
// value: copying the struct copies the whole grid.
type Board struct {
	cells [Size][Size]Color
	turn  Color
}

// New returns a board in the starting position with dark to move.
func New() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset restores the four-disc starting position; dark moves first.
func (b *Board) Reset() {
	b.cells = [Size][Size]Color{}
	mid := Size / 2
	b.cells[mid-1][mid-1] = Light
	b.cells[mid][mid] = Light
	b.cells[mid-1][mid] = Dark
	b.cells[mid][mid-1] = Dark
	b.turn = Dark
}

// Parse builds a board from Size rows of '.', 'X' (dark) and 'O' (light).
func Parse(rows []string, turn Color) (*Board, error) {
	if len(rows) != Size {
		return nil, fmt.Errorf("expected %d rows, got %d", Size, len(rows))
	}
	b := &Board{turn: turn}
	for r, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		if len(row) != Size {
			return nil, fmt.Errorf("row %d: expected %d cells, got %d", r+1, Size, len(row))
		}
		for c := 0; c < Size; c++ {
			switch row[c] {
			case '.', '-':
				b.cells[r][c] = Empty
			case 'X', 'x', 'B', 'b':
				b.cells[r][c] = Dark
			case 'O', 'o', 'W', 'w':
				b.cells[r][c] = Light
			default:
				return nil, fmt.Errorf("row %d: unexpected cell %q", r+1, row[c])
			}
		}
	}
	return b, nil
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

func (b *Board) Turn() Color {
	return b.turn
}

func (b *Board) SetTurn(c Color) {
	b.turn = c
}

// Pass hands the turn to the opponent without placing a disc.
func (b *Board) Pass() {
	b.turn = b.turn.Opponent()
}

func (b *Board) At(row, col int) Color {
	return b.cells[row][col]
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// IsValidMove reports whether p may place a disc at (row, col).
func (b *Board) IsValidMove(row, col int, p Color) bool {
	if !inBounds(row, col) || b.cells[row][col] != Empty || p == Empty {
		return false
	}
	for _, d := range directions {
		if b.run(row, col, d[0], d[1], p) > 0 {
			return true
		}
	}
	return false
}

// run returns the number of opponent discs bracketed by p when scanning from
// (row, col) along (dr, dc), or 0 if the direction does not qualify.
func (b *Board) run(row, col, dr, dc int, p Color) int {
	opponent := p.Opponent()
	n := 0
	r, c := row+dr, col+dc
	for inBounds(r, c) {
		switch b.cells[r][c] {
		case opponent:
			n++
		case p:
			return n
		default:
			return 0
		}
		r += dr
		c += dc
	}
	return 0
}

// ApplyMove places a disc for p at (row, col) and flips every bracketed run.
// It returns false and leaves the board untouched if the move is illegal.
// The turn is not changed.
func (b *Board) ApplyMove(row, col int, p Color) bool {
	return b.apply(row, col, p) >= 0
}

// apply returns the number of flipped discs, or -1 for an illegal move.
func (b *Board) apply(row, col int, p Color) int {
	if !b.IsValidMove(row, col, p) {
		return -1
	}
	b.cells[row][col] = p
	flipped := 0
	for _, d := range directions {
		n := b.run(row, col, d[0], d[1], p)
		for i := 1; i <= n; i++ {
			b.cells[row+i*d[0]][col+i*d[1]] = p
		}
		flipped += n
	}
	return flipped
}

// Play applies m for the side to move and hands the turn over.
func (b *Board) Play(m Move) bool {
	if !b.ApplyMove(m.Row, m.Col, b.turn) {
		return false
	}
	b.Pass()
	return true
}

// LegalMoves scans every cell in row-major order.
func (b *Board) LegalMoves(p Color) []Move {
	var moves []Move
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.IsValidMove(r, c, p) {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// HasLegalMove is LegalMoves with an early exit.
func (b *Board) HasLegalMove(p Color) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.IsValidMove(r, c, p) {
				return true
			}
		}
	}
	return false
}

// IsTerminal is true when the board is full or neither player can move.
func (b *Board) IsTerminal() bool {
	if b.Empties() == 0 {
		return true
	}
	return !b.HasLegalMove(Dark) && !b.HasLegalMove(Light)
}

// Score returns the disc counts of both players.
func (b *Board) Score() (dark, light int) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			switch b.cells[r][c] {
			case Dark:
				dark++
			case Light:
				light++
			}
		}
	}
	return dark, light
}

func (b *Board) Count(p Color) int {
	dark, light := b.Score()
	switch p {
	case Dark:
		return dark
	case Light:
		return light
	default:
		return b.Empties()
	}
}

// Discs is the total number of discs on the board.
func (b *Board) Discs() int {
	dark, light := b.Score()
	return dark + light
}

func (b *Board) Empties() int {
	return Size*Size - b.Discs()
}

// Winner is Undecided until the board is terminal.
func (b *Board) Winner() Outcome {
	if !b.IsTerminal() {
		return Undecided
	}
	dark, light := b.Score()
	switch {
	case dark > light:
		return DarkWins
	case light > dark:
		return LightWins
	default:
		return Draw
	}
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for r := 0; r < Size; r++ {
		fmt.Fprintf(&sb, "%d", r+1)
		for c := 0; c < Size; c++ {
			sb.WriteByte(' ')
			sb.WriteByte(b.cells[r][c].Symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
