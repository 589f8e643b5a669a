package game

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidMove = errors.New("invalid move")

// Move is a board coordinate. Whether it is legal depends on the board.
type Move struct {
	Row int
	Col int
}

func (m Move) InBounds() bool {
	return m.Row >= 0 && m.Row < Size && m.Col >= 0 && m.Col < Size
}

// String renders the move in algebraic notation, column letter then row
// number: Move{Row: 2, Col: 3} is "d3".
func (m Move) String() string {
	if !m.InBounds() {
		return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+m.Col, m.Row+1)
}

// IsCorner reports whether the move is one of the four corners.
func (m Move) IsCorner() bool {
	return (m.Row == 0 || m.Row == Size-1) && (m.Col == 0 || m.Col == Size-1)
}

// IsEdge reports whether the move lies on the border, corners excluded.
func (m Move) IsEdge() bool {
	onBorder := m.Row == 0 || m.Row == Size-1 || m.Col == 0 || m.Col == Size-1
	return onBorder && !m.IsCorner()
}

// ParseMove parses algebraic notation such as "d3" or "F5".
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	m := Move{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}
	if !m.InBounds() {
		return Move{}, fmt.Errorf("%w: %q is off the board", ErrInvalidMove, s)
	}
	return m, nil
}
