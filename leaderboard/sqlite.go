package leaderboard

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed schema.sql
var schema string

// SQLiteStore is the Store backed by a SQLite file.
type SQLiteStore struct {
	sqlDB *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) Insert(ctx context.Context, e Entry) (Entry, error) {
	var stmt sql.NullString
	if e.Statement != "" {
		stmt = sql.NullString{String: e.Statement, Valid: true}
	}
	err := s.sqlDB.QueryRowContext(ctx,
		`INSERT INTO leaderboard (address, score, proof_url, statement, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`,
		e.Address, e.Score, e.ProofURL, stmt, e.CreatedAt.UnixNano(),
	).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Entry{}, ErrDuplicateClaim
		}
		return Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	e.Rank = 0
	return e, nil
}

func (s *SQLiteStore) Top(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, address, score, proof_url, COALESCE(statement, ''), created_at,
		        ROW_NUMBER() OVER (ORDER BY score DESC, id ASC) AS rank
		 FROM leaderboard
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Address, &e.Score, &e.ProofURL, &e.Statement, &created, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Rank(ctx context.Context, address string) (int, error) {
	var best sql.NullInt64
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT MAX(score) FROM leaderboard WHERE address = ?`, address,
	).Scan(&best); err != nil {
		return 0, fmt.Errorf("query best score: %w", err)
	}
	if !best.Valid {
		return 0, ErrUnknownPlayer
	}

	var rank int
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) + 1 FROM leaderboard WHERE score > ?`, best.Int64,
	).Scan(&rank); err != nil {
		return 0, fmt.Errorf("query rank: %w", err)
	}
	return rank, nil
}

func (s *SQLiteStore) SetName(ctx context.Context, address, name string) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO player_names (address, name) VALUES (?, ?)
		 ON CONFLICT (address) DO UPDATE SET name = excluded.name`,
		address, name,
	)
	if err != nil {
		return fmt.Errorf("set name: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Rollover(ctx context.Context, day time.Time, topN int, keep time.Duration) (n int, err error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rollover: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var count int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM leaderboard`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	if count == 0 {
		return 0, ErrEmptyLeaderboard
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO daily_winners (day, address, name, score, rank)
		 SELECT ?, l.address, COALESCE(n.name, l.address), l.score,
		        ROW_NUMBER() OVER (ORDER BY l.score DESC, l.id ASC)
		 FROM leaderboard l
		 LEFT JOIN player_names n ON n.address = l.address
		 ORDER BY l.score DESC, l.id ASC
		 LIMIT ?`,
		day.Unix(), topN,
	)
	if err != nil {
		return 0, fmt.Errorf("insert winners: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM daily_winners WHERE day < ?`, day.Add(-keep).Unix(),
	); err != nil {
		return 0, fmt.Errorf("prune winners: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM leaderboard`); err != nil {
		return 0, fmt.Errorf("reset leaderboard: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rollover: %w", err)
	}
	return int(inserted), nil
}

func (s *SQLiteStore) Winners(ctx context.Context, since time.Time) ([]Winner, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`WITH ranked AS (
		     SELECT day, address, name, score, rank,
		            ROW_NUMBER() OVER (PARTITION BY day, address ORDER BY rank ASC) AS rn
		     FROM daily_winners
		     WHERE day >= ?
		 )
		 SELECT day, address, name, score, rank
		 FROM ranked
		 WHERE rn = 1
		 ORDER BY day DESC, rank ASC`,
		since.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("query winners: %w", err)
	}
	defer rows.Close()

	var out []Winner
	for rows.Next() {
		var (
			w   Winner
			day int64
		)
		if err := rows.Scan(&day, &w.Address, &w.Name, &w.Score, &w.Rank); err != nil {
			return nil, fmt.Errorf("scan winner: %w", err)
		}
		w.Day = time.Unix(day, 0).UTC()
		out = append(out, w)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		return serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
