package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore keeps table blobs and generation history in one SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// GenerationRecord is the result of one finished generation.
type GenerationRecord struct {
	ID          int64
	Generation  int
	Ticks       int
	Winner      int // Index of the last agent standing, -1 for a draw
	Scores      []float64
	Exploration []float64
	CreatedAt   time.Time
}

// Draw reports whether the generation ended without a single survivor.
func (r GenerationRecord) Draw() bool { return r.Winner < 0 }

// HistoryStats aggregates recorded generations.
type HistoryStats struct {
	Generations int
	Draws       int
	Wins        map[int]int // Wins per agent index
	AvgTicks    float64
	BestScore   float64
	LastPlayed  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*SQLiteStore, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
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

	store := &SQLiteStore{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS qtables (
			agent INTEGER PRIMARY KEY,
			blob BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS generations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			generation INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			winner INTEGER NOT NULL DEFAULT -1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_generations_winner ON generations(winner);

		CREATE TABLE IF NOT EXISTS generation_scores (
			generation_id INTEGER NOT NULL REFERENCES generations(id) ON DELETE CASCADE,
			agent INTEGER NOT NULL,
			score REAL NOT NULL,
			exploration REAL NOT NULL,
			PRIMARY KEY (generation_id, agent)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveQTable stores or replaces the blob for agent index.
func (s *SQLiteStore) SaveQTable(ctx context.Context, index int, blob []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO qtables (agent, blob, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(agent) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`,
		index, blob,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save table %d: %w", index, err)
	}
	return nil
}

// LoadQTable returns the blob for agent index.
func (s *SQLiteStore) LoadQTable(ctx context.Context, index int) ([]byte, bool, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, "SELECT blob FROM qtables WHERE agent = ?", index).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot load table %d: %w", index, err)
	}
	return blob, true, nil
}

// RecordGeneration appends a finished generation and its per-agent scores.
// Returns the ID of the inserted record.
func (s *SQLiteStore) RecordGeneration(ctx context.Context, rec GenerationRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO generations (generation, ticks, winner) VALUES (?, ?, ?)",
		rec.Generation, rec.Ticks, rec.Winner,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save generation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for i, score := range rec.Scores {
		var exploration float64
		if i < len(rec.Exploration) {
			exploration = rec.Exploration[i]
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO generation_scores (generation_id, agent, score, exploration) VALUES (?, ?, ?, ?)",
			id, i, score, exploration,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit generation: %w", err)
	}
	return id, nil
}

// History returns the most recent generations, oldest first.
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]GenerationRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, generation, ticks, winner, created_at
		 FROM generations
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query generations: %w", err)
	}
	defer rows.Close()

	var records []GenerationRecord
	for rows.Next() {
		var r GenerationRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Generation, &r.Ticks, &r.Winner, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	// Reverse into chronological order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	for i := range records {
		if err := s.loadScores(ctx, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *SQLiteStore) loadScores(ctx context.Context, r *GenerationRecord) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT score, exploration FROM generation_scores WHERE generation_id = ? ORDER BY agent",
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var score, exploration float64
		if err := rows.Scan(&score, &exploration); err != nil {
			return fmt.Errorf("storage: cannot scan score: %w", err)
		}
		r.Scores = append(r.Scores, score)
		r.Exploration = append(r.Exploration, exploration)
	}
	return rows.Err()
}

// Stats aggregates every recorded generation.
func (s *SQLiteStore) Stats(ctx context.Context) (*HistoryStats, error) {
	stats := &HistoryStats{Wins: make(map[int]int)}

	var lastPlayed any
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(ticks), 0), COALESCE(SUM(CASE WHEN winner < 0 THEN 1 ELSE 0 END), 0), MAX(created_at)
		 FROM generations`,
	).Scan(&stats.Generations, &stats.AvgTicks, &stats.Draws, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get history stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	rows, err := s.db.QueryContext(ctx,
		"SELECT winner, COUNT(*) FROM generations WHERE winner >= 0 GROUP BY winner",
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count wins: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var agent, wins int
		if err := rows.Scan(&agent, &wins); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats.Wins[agent] = wins
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	var best sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(score) FROM generation_scores").Scan(&best); err != nil {
		return nil, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	if best.Valid {
		stats.BestScore = best.Float64
	}

	return stats, nil
}

// ClearHistory deletes all recorded generations. Stored tables are kept.
func (s *SQLiteStore) ClearHistory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM generation_scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM generations"); err != nil {
		return fmt.Errorf("storage: cannot clear generations: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var (
	_ QTableStore     = (*SQLiteStore)(nil)
	_ HistoryRecorder = (*SQLiteStore)(nil)
	_ QTableStore     = (*FileStore)(nil)
)
