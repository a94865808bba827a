// Package store persists benchmark scores in SQLite so runs accumulate into
// a leaderboard across invocations.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stellarlinkco/lineage-bench/internal/config"
)

const (
	DefaultPath  = "data/lineage.db"
	defaultLimit = 50
)

type Store struct {
	db *sql.DB
}

// Score is one (model, problem size) aggregate saved from a metrics run.
type Score struct {
	ID        int64
	Model     string
	Provider  string
	Size      int
	Score     float64
	Correct   int
	Incorrect int
	Missing   int
	EvalDate  time.Time
}

// Standing is one leaderboard row: a model's lineage score averaged over its
// stored per-size scores.
type Standing struct {
	Model   string
	Lineage float64
	Entries int
}

func Open(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("store: empty db path")
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping db: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// FromConfig opens the store described by the storage section. An empty
// type means SQLite; an empty path means DefaultPath.
func FromConfig(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("store: missing config")
	}

	storageType := strings.ToLower(strings.TrimSpace(cfg.Storage.Type))
	if storageType == "" {
		storageType = "sqlite"
	}

	switch storageType {
	case "sqlite":
		path := strings.TrimSpace(cfg.Storage.Path)
		if path == "" {
			path = DefaultPath
		}
		return Open(path)
	case "memory":
		return Open(":memory:")
	default:
		return nil, fmt.Errorf("store: unsupported type %q", storageType)
	}
}

func initSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("store: nil db")
	}

	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS lineage_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model TEXT NOT NULL,
			provider TEXT NOT NULL,
			problem_size INTEGER NOT NULL,
			score REAL NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			missing INTEGER NOT NULL,
			eval_date INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lineage_scores_model ON lineage_scores(model)`,
		`CREATE INDEX IF NOT EXISTS idx_lineage_scores_model_size ON lineage_scores(model, problem_size)`,
		`CREATE INDEX IF NOT EXISTS idx_lineage_scores_eval_date ON lineage_scores(eval_date)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, sc *Score) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if sc == nil {
		return errors.New("store: nil score")
	}

	model := strings.TrimSpace(sc.Model)
	if model == "" {
		return errors.New("store: missing model")
	}
	if sc.Size <= 0 {
		return fmt.Errorf("store: bad problem size %d", sc.Size)
	}

	evalDate := sc.EvalDate
	if evalDate.IsZero() {
		evalDate = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO lineage_scores (
			model, provider, problem_size, score, correct, incorrect, missing, eval_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, model, strings.TrimSpace(sc.Provider), sc.Size, sc.Score, sc.Correct, sc.Incorrect, sc.Missing, evalDate.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("store: insert score: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		sc.ID = id
	}
	sc.Model = model
	sc.EvalDate = evalDate
	return nil
}

// Leaderboard ranks models by their mean stored score, best first.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]Standing, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT model, AVG(score), COUNT(*)
		FROM lineage_scores
		GROUP BY model
		ORDER BY AVG(score) DESC, model ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.Model, &st.Lineage, &st.Entries); err != nil {
			return nil, fmt.Errorf("store: scan standing: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: scan rows: %w", err)
	}
	return out, nil
}

// ModelHistory returns a model's stored scores, newest first.
func (s *Store) ModelHistory(ctx context.Context, model string) ([]Score, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("store: missing model")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, provider, problem_size, score, correct, incorrect, missing, eval_date
		FROM lineage_scores
		WHERE model = ?
		ORDER BY eval_date DESC, problem_size ASC
	`, model)
	if err != nil {
		return nil, fmt.Errorf("store: query model history: %w", err)
	}
	defer rows.Close()

	var out []Score
	for rows.Next() {
		var sc Score
		var evalDateMS int64
		if err := rows.Scan(
			&sc.ID,
			&sc.Model,
			&sc.Provider,
			&sc.Size,
			&sc.Score,
			&sc.Correct,
			&sc.Incorrect,
			&sc.Missing,
			&evalDateMS,
		); err != nil {
			return nil, fmt.Errorf("store: scan score: %w", err)
		}
		sc.EvalDate = time.UnixMilli(evalDateMS).UTC()
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: scan rows: %w", err)
	}
	return out, nil
}
