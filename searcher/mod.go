package searcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"othello/game"

	"github.com/rs/zerolog/log"
)

// Searcher picks a move for player p on board b. ok is false when p has no
// move to make (or the search failed), in which case p must pass. The board
// is never modified.
type Searcher interface {
	FindMove(ctx context.Context, b *game.Board, p game.Color) (move game.Move, ok bool, stats Stats)
	Name() string
}

type Kind string

const (
	KindMinimax   Kind = "minimax"
	KindAlphaBeta Kind = "alphabeta"
	KindMCTS      Kind = "mcts"
)

var ErrUnknownKind = errors.New("unknown searcher kind")

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindMinimax, KindAlphaBeta, KindMCTS:
		return k, nil
	case "alpha-beta", "ab":
		return KindAlphaBeta, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// New builds a searcher of the given kind.
func New(kind Kind, options ...Option) (Searcher, error) {
	switch kind {
	case KindMinimax:
		return NewMinimax(options...), nil
	case KindAlphaBeta:
		return NewAlphaBeta(options...), nil
	case KindMCTS:
		return NewMCTS(options...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// recoverSearch turns a panic inside a search into "no move".
func recoverSearch(name string, ok *bool) {
	if r := recover(); r != nil {
		log.Error().Str("searcher", name).Interface("panic", r).Msg("search-failed-passing")
		*ok = false
	}
}
