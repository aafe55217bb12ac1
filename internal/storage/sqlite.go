// Package storage provides SQLite-based persistence for recorded sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/blockfall/internal/replay"
)

// ErrNotFound is returned when a recording does not exist.
var ErrNotFound = errors.New("storage: recording not found")

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RecordingInfo is a recording without its inputs, for listings.
type RecordingInfo struct {
	ID         uuid.UUID
	GameID     string
	Player     string
	Seed       int64
	Ticks      int
	TickRate   int
	FinalScore int
	CreatedAt  time.Time
}

// Duration returns the recorded session length.
func (i RecordingInfo) Duration() time.Duration {
	if i.TickRate <= 0 {
		return 0
	}
	return time.Duration(i.Ticks) * time.Second / time.Duration(i.TickRate)
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS recordings (
			id TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			seed INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			config BLOB NOT NULL,
			inputs BLOB NOT NULL,
			ticks INTEGER NOT NULL,
			final_score INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_recordings_game_id ON recordings(game_id);
		CREATE INDEX IF NOT EXISTS idx_recordings_created ON recordings(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRecording stores a finished recording. Saving the same ID twice
// replaces the earlier row.
func (s *Store) SaveRecording(rec *replay.Recording) error {
	inputs, err := replay.CompressInputs(rec.Inputs)
	if err != nil {
		return fmt.Errorf("storage: cannot save recording: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO recordings
		 (id, version, game_id, player, seed, tick_rate, config, inputs, ticks, final_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(),
		rec.Version,
		rec.GameID,
		rec.Player,
		rec.Seed,
		rec.TickRate,
		rec.Config,
		inputs,
		rec.Ticks(),
		rec.FinalScore,
		createdAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save recording: %w", err)
	}
	return nil
}

// Recording loads a recording with its inputs.
func (s *Store) Recording(id uuid.UUID) (*replay.Recording, error) {
	var rec replay.Recording
	var rawID string
	var inputs []byte
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, version, game_id, player, seed, tick_rate, config, inputs, final_score, created_at
		 FROM recordings
		 WHERE id = ?`,
		id.String(),
	).Scan(
		&rawID,
		&rec.Version,
		&rec.GameID,
		&rec.Player,
		&rec.Seed,
		&rec.TickRate,
		&rec.Config,
		&inputs,
		&rec.FinalScore,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recording: %w", err)
	}

	if rec.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("storage: bad recording id %q: %w", rawID, err)
	}
	if rec.Inputs, err = replay.DecompressInputs(inputs); err != nil {
		return nil, fmt.Errorf("storage: cannot load recording %s: %w", id, err)
	}
	rec.CreatedAt = parseTime(createdAt)

	return &rec, nil
}

// FindRecording resolves a full ID or a unique ID prefix, as printed by
// listings.
func (s *Store) FindRecording(ref string) (*replay.Recording, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.Recording(id)
	}

	rows, err := s.db.Query(`SELECT id FROM recordings WHERE id LIKE ? LIMIT 2`, ref+"%")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recordings: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		matches = append(matches, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		id, err := uuid.Parse(matches[0])
		if err != nil {
			return nil, fmt.Errorf("storage: bad recording id %q: %w", matches[0], err)
		}
		return s.Recording(id)
	default:
		return nil, fmt.Errorf("storage: recording prefix %q is ambiguous", ref)
	}
}

// Recordings lists the most recent recordings, newest first.
func (s *Store) Recordings(limit int) ([]RecordingInfo, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, player, seed, ticks, tick_rate, final_score, created_at
		 FROM recordings
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recordings: %w", err)
	}
	defer rows.Close()

	var infos []RecordingInfo
	for rows.Next() {
		var info RecordingInfo
		var rawID string
		var createdAt any
		if err := rows.Scan(
			&rawID,
			&info.GameID,
			&info.Player,
			&info.Seed,
			&info.Ticks,
			&info.TickRate,
			&info.FinalScore,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if info.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("storage: bad recording id %q: %w", rawID, err)
		}
		info.CreatedAt = parseTime(createdAt)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return infos, nil
}

// DeleteRecording removes a recording.
func (s *Store) DeleteRecording(id uuid.UUID) error {
	res, err := s.db.Exec("DELETE FROM recordings WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("storage: cannot delete recording: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete recording: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
