package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp       TEXT    NOT NULL,
	mode            TEXT    NOT NULL,
	game_number     INTEGER NOT NULL,
	dark_agent      TEXT    NOT NULL,
	dark_score      INTEGER NOT NULL,
	dark_moves      INTEGER NOT NULL,
	dark_avg_depth  REAL    NOT NULL,
	dark_avg_time   INTEGER NOT NULL,
	light_agent     TEXT    NOT NULL,
	light_score     INTEGER NOT NULL,
	light_moves     INTEGER NOT NULL,
	light_avg_depth REAL    NOT NULL,
	light_avg_time  INTEGER NOT NULL,
	winner          TEXT    NOT NULL,
	fingerprint     TEXT    NOT NULL,
	moves           TEXT    NOT NULL
)`

const columns = `timestamp, mode, game_number,
	dark_agent, dark_score, dark_moves, dark_avg_depth, dark_avg_time,
	light_agent, light_score, light_moves, light_avg_depth, light_avg_time,
	winner, fingerprint, moves`

// Attempts bounds how often a busy database is retried.
const Attempts = 5

// SQLiteStore keeps the history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func isBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code() & 0xff
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}

func (s *SQLiteStore) Append(ctx context.Context, r Record) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	moves, err := json.Marshal(r.Moves)
	if err != nil {
		return fmt.Errorf("failed to encode moves: %w", err)
	}

	return retry.Do(
		func() error {
			_, err := s.db.ExecContext(ctx,
				`INSERT INTO games (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				r.Timestamp.UTC().Format(time.RFC3339Nano), r.Mode, r.GameNumber,
				r.Dark.Agent, r.Dark.Score, r.Dark.Moves, r.Dark.AvgDepth, int64(r.Dark.AvgTime),
				r.Light.Agent, r.Light.Score, r.Light.Moves, r.Light.AvgDepth, int64(r.Light.AvgTime),
				r.Winner, r.Fingerprint, string(moves))
			if err != nil {
				return fmt.Errorf("failed to insert game: %w", err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(Attempts),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Warn().Err(err).Uint("n", n).Msg("history-busy-retrying")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, `+columns+` FROM games ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r                   Record
			timestamp, moves    string
			darkTime, lightTime int64
		)
		err := rows.Scan(&r.ID, &timestamp, &r.Mode, &r.GameNumber,
			&r.Dark.Agent, &r.Dark.Score, &r.Dark.Moves, &r.Dark.AvgDepth, &darkTime,
			&r.Light.Agent, &r.Light.Score, &r.Light.Moves, &r.Light.AvgDepth, &lightTime,
			&r.Winner, &r.Fingerprint, &moves)
		if err != nil {
			return nil, fmt.Errorf("failed to read game: %w", err)
		}
		if r.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
			return nil, fmt.Errorf("failed to parse timestamp of game %d: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(moves), &r.Moves); err != nil {
			return nil, fmt.Errorf("failed to decode moves of game %d: %w", r.ID, err)
		}
		r.Dark.AvgTime = time.Duration(darkTime)
		r.Light.AvgTime = time.Duration(lightTime)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
