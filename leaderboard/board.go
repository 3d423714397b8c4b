package leaderboard

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kysee/lemonzk/zk-score/types"
	"github.com/kysee/lemonzk/zk-score/verifier"
	"github.com/rs/zerolog"
)

const (
	DefaultLimit   = 100
	WinnersPerDay  = 10
	WinnersHistory = 7 * 24 * time.Hour
)

// ReceiptSource resolves a verified statement to its receipt.
type ReceiptSource interface {
	Receipt(statement []byte) (*verifier.Receipt, error)
}

type Board struct {
	store Store
	limit int
	now   func() time.Time
	log   zerolog.Logger
}

type Option func(*Board)

func WithLimit(n int) Option {
	return func(b *Board) {
		if n > 0 {
			b.limit = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(b *Board) { b.log = l }
}

func NewBoard(store Store, opts ...Option) *Board {
	b := &Board{
		store: store,
		limit: DefaultLimit,
		now:   time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddEntry records a score and returns it with the player's current rank.
func (b *Board) AddEntry(ctx context.Context, address string, score int, proofURL string) (Entry, error) {
	return b.add(ctx, Entry{Address: address, Score: score, ProofURL: proofURL})
}

// Claim records the score of a verified proof. The signature must come from
// the address the proof is bound to.
func (b *Board) Claim(ctx context.Context, receipts ReceiptSource, address string, statement, sig []byte) (Entry, error) {
	r, err := receipts.Receipt(statement)
	if err != nil {
		return Entry{}, err
	}
	if err := types.VerifyStatement(address, statement, sig); err != nil {
		return Entry{}, err
	}
	pub, err := types.Addr2Pub(address)
	if err != nil {
		return Entry{}, err
	}
	if !bytes.Equal(types.PlayerKey(pub), r.Signals.PlayerKey) {
		return Entry{}, ErrPlayerKeyMismatch
	}

	return b.add(ctx, Entry{
		Address:   address,
		Score:     int(r.Signals.FinalScore),
		ProofURL:  r.URL,
		Statement: hexutil.Encode(statement),
	})
}

func (b *Board) add(ctx context.Context, e Entry) (Entry, error) {
	if err := validate(e); err != nil {
		return Entry{}, err
	}
	e.CreatedAt = b.now().UTC()

	e, err := b.store.Insert(ctx, e)
	if err != nil {
		return Entry{}, err
	}
	if e.Rank, err = b.store.Rank(ctx, e.Address); err != nil {
		return Entry{}, err
	}

	b.log.Info().
		Str("address", e.Address).
		Int("score", e.Score).
		Int("rank", e.Rank).
		Msg("leaderboard entry added")
	return e, nil
}

func validate(e Entry) error {
	if _, err := types.DecodeAddress(e.Address); err != nil {
		return fmt.Errorf("%w: address: %v", ErrInvalidEntry, err)
	}
	if e.Score < 0 {
		return fmt.Errorf("%w: negative score", ErrInvalidEntry)
	}
	u, err := url.Parse(e.ProofURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: proof url %q", ErrInvalidEntry, e.ProofURL)
	}
	return nil
}

func (b *Board) Leaderboard(ctx context.Context) ([]Entry, error) {
	return b.store.Top(ctx, b.limit)
}

func (b *Board) PlayerRank(ctx context.Context, address string) (int, error) {
	return b.store.Rank(ctx, address)
}

func (b *Board) SetName(ctx context.Context, address, name string) error {
	if _, err := types.DecodeAddress(address); err != nil {
		return fmt.Errorf("%w: address: %v", ErrInvalidEntry, err)
	}
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidEntry)
	}
	return b.store.SetName(ctx, address, name)
}

// CloseDay freezes today's top scores as winners stamped at noon UTC and
// starts a fresh leaderboard.
func (b *Board) CloseDay(ctx context.Context) (int, error) {
	day := noonUTC(b.now())
	n, err := b.store.Rollover(ctx, day, WinnersPerDay, WinnersHistory)
	if err != nil {
		return 0, err
	}
	b.log.Info().Time("day", day).Int("winners", n).Msg("leaderboard rolled over")
	return n, nil
}

func (b *Board) DailyWinners(ctx context.Context) ([]Winner, error) {
	return b.store.Winners(ctx, b.now().UTC().Add(-WinnersHistory))
}

func noonUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}
