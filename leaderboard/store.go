// Package leaderboard ranks proven scores and keeps the daily winners.
package leaderboard

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnknownPlayer     = errors.New("player has no leaderboard entry")
	ErrEmptyLeaderboard  = errors.New("leaderboard is empty")
	ErrDuplicateClaim    = errors.New("statement already claimed")
	ErrInvalidEntry      = errors.New("invalid leaderboard entry")
	ErrPlayerKeyMismatch = errors.New("proof is bound to another player")
)

// Entry is one submitted score. Score is in ten-cent units.
type Entry struct {
	ID        int64
	Address   string
	Score     int
	ProofURL  string
	Statement string
	CreatedAt time.Time
	Rank      int
}

// Winner is a leaderboard row frozen by a daily rollover.
type Winner struct {
	Day     time.Time
	Address string
	Name    string
	Score   int
	Rank    int
}

// Store persists entries and winners. Entries are ordered by score
// descending, then by insertion order.
type Store interface {
	Insert(ctx context.Context, e Entry) (Entry, error)
	Top(ctx context.Context, limit int) ([]Entry, error)
	// Rank is one plus the number of entries scoring strictly above the
	// address's best score.
	Rank(ctx context.Context, address string) (int, error)
	SetName(ctx context.Context, address, name string) error
	// Rollover copies the top entries into the winners of day, drops winners
	// older than day-keep and clears the leaderboard.
	Rollover(ctx context.Context, day time.Time, topN int, keep time.Duration) (int, error)
	// Winners lists winners since the given time, newest day first, keeping
	// each address's best rank per day.
	Winners(ctx context.Context, since time.Time) ([]Winner, error)
	Close() error
}
