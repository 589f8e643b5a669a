package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"othello/engine"
	"othello/experiments/metrics"
)

var ErrUnknownBackend = errors.New("unknown history backend")

// PlayerRecord is one side of a stored game.
type PlayerRecord struct {
	Agent    string        `json:"agent"`
	Score    int           `json:"score"`
	Moves    int           `json:"moves"`
	AvgDepth float64       `json:"avg_depth"`
	AvgTime  time.Duration `json:"avg_time"`
}

// Record is a finished game as kept in the history.
type Record struct {
	ID          int64        `json:"id"`
	Timestamp   time.Time    `json:"timestamp"`
	Mode        string       `json:"mode"`
	GameNumber  int          `json:"game_number"`
	Dark        PlayerRecord `json:"dark"`
	Light       PlayerRecord `json:"light"`
	Winner      string       `json:"winner"`
	Fingerprint string       `json:"fingerprint"`
	Moves       []string     `json:"moves"`
}

// Store keeps game records. List returns the newest first; a limit of zero
// or less returns every record.
type Store interface {
	Append(ctx context.Context, r Record) error
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Open returns the store for backend, "json" or "sqlite".
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(backend) {
	case "json", "":
		return NewJSONStore(path)
	case "sqlite":
		return NewSQLiteStore(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// FromResult converts a played game. gameNumber counts games within a
// series, starting at 1.
func FromResult(mode string, gameNumber int, r engine.Result) Record {
	return Record{
		Timestamp:   r.EndTime,
		Mode:        mode,
		GameNumber:  gameNumber,
		Dark:        playerRecord(r.Dark),
		Light:       playerRecord(r.Light),
		Winner:      r.Outcome.String(),
		Fingerprint: fmt.Sprintf("%016x", metrics.Fingerprint(r.Moves)),
		Moves:       metrics.Notation(r.Moves),
	}
}

func playerRecord(p metrics.PlayerMetric) PlayerRecord {
	return PlayerRecord{
		Agent:    p.Agent,
		Score:    p.Score,
		Moves:    p.Moves,
		AvgDepth: p.AvgDepth,
		AvgTime:  p.AvgTime,
	}
}
