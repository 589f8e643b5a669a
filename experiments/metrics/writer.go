package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type GameRecord struct {
	ID          int
	DarkSeed    uint64
	LightSeed   uint64
	Fingerprint uint64
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of root named after name and the current time.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := strings.ReplaceAll(time.Now().UTC().Format(time.RFC3339), ":", "-")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	// Create a file
	path := filepath.Join(w.baseDir, "games.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	header := []string{"id", "dark", "light", "dark_seed", "light_seed", "outcome", "dark_score", "light_score",
		"dark_avg_depth", "light_avg_depth", "dark_avg_time", "light_avg_time", "plies", "fingerprint",
		"start_time", "duration"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	// Write each row
	for _, record := range records {
		row := []string{
			strconv.Itoa(record.ID),
			record.Dark.Agent,
			record.Light.Agent,
			strconv.FormatUint(record.DarkSeed, 10),
			strconv.FormatUint(record.LightSeed, 10),
			record.Outcome.String(),
			strconv.Itoa(record.Dark.Score),
			strconv.Itoa(record.Light.Score),
			strconv.FormatFloat(record.Dark.AvgDepth, 'f', 2, 64),
			strconv.FormatFloat(record.Light.AvgDepth, 'f', 2, 64),
			record.Dark.AvgTime.String(),
			record.Light.AvgTime.String(),
			strconv.Itoa(record.TotalMoves),
			strconv.FormatUint(record.Fingerprint, 16),
			record.StartTime.Format(time.RFC3339),
			record.Duration.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush game records: %w", err)
	}
	return nil
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	// Create a file
	path := filepath.Join(w.baseDir, "moves.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create move records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	header := []string{"game", "step", "player", "move", "depth", "nodes", "elapsed"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write move records header: %w", err)
	}

	// Write each row
	for _, record := range records {
		move := record.Move.String()
		if record.Passed {
			move = "pass"
		}
		row := []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			move,
			strconv.Itoa(record.Depth),
			strconv.FormatInt(record.Nodes, 10),
			record.Elapsed.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write move record row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush move records: %w", err)
	}
	return nil
}
