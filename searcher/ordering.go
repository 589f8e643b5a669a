package searcher

import (
	"sort"

	"othello/game"
)

func movePriority(m game.Move) int {
	switch {
	case m.IsCorner():
		return 2
	case m.IsEdge():
		return 1
	}
	return 0
}

// orderMoves puts corners first and edges second, keeping the board order
// within each group.
func orderMoves(moves []game.Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		return movePriority(moves[i]) > movePriority(moves[j])
	})
}
