package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/kysee/lemonzk/zk-score/crypto"
	"github.com/kysee/lemonzk/zk-score/types"
	"github.com/kysee/lemonzk/zk-score/verifier"
	"github.com/stretchr/testify/require"
)

type receiptMap map[string]*verifier.Receipt

func (m receiptMap) Receipt(statement []byte) (*verifier.Receipt, error) {
	r, ok := m[string(statement)]
	if !ok {
		return nil, verifier.ErrUnknownStatement
	}
	return r, nil
}

func newAddress(t *testing.T) string {
	t.Helper()
	k, err := crypto.NewKey()
	require.NoError(t, err)
	return types.Pub2Addr(&k.PublicKey)
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestBoardAddEntry(t *testing.T) {
	ctx := context.Background()
	b := NewBoard(NewMemoryStore(), WithLimit(2))
	alice, bob, carol := newAddress(t), newAddress(t), newAddress(t)

	e, err := b.AddEntry(ctx, alice, 1500, "https://zkverify-testnet.subscan.io/extrinsic/0x01")
	require.NoError(t, err)
	require.Equal(t, 1, e.Rank)

	e, err = b.AddEntry(ctx, bob, 2400, "https://zkverify-testnet.subscan.io/extrinsic/0x02")
	require.NoError(t, err)
	require.Equal(t, 1, e.Rank)

	// a worse score still reports the player's best rank
	e, err = b.AddEntry(ctx, bob, 100, "https://zkverify-testnet.subscan.io/extrinsic/0x03")
	require.NoError(t, err)
	require.Equal(t, 1, e.Rank)

	_, err = b.AddEntry(ctx, carol, 0, "http://localhost:3000/proof")
	require.NoError(t, err)

	rank, err := b.PlayerRank(ctx, carol)
	require.NoError(t, err)
	require.Equal(t, 4, rank)

	_, err = b.PlayerRank(ctx, newAddress(t))
	require.ErrorIs(t, err, ErrUnknownPlayer)

	top, err := b.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, bob, top[0].Address)
	require.Equal(t, alice, top[1].Address)
}

func TestBoardValidation(t *testing.T) {
	ctx := context.Background()
	b := NewBoard(NewMemoryStore())
	addr := newAddress(t)

	cases := []struct {
		name    string
		address string
		score   int
		url     string
	}{
		{"bad address", "0xdeadbeef", 10, "https://x.io/p"},
		{"negative score", addr, -1, "https://x.io/p"},
		{"relative url", addr, 10, "/proof/1"},
		{"wrong scheme", addr, 10, "ftp://x.io/p"},
		{"empty url", addr, 10, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.AddEntry(ctx, tc.address, tc.score, tc.url)
			require.ErrorIs(t, err, ErrInvalidEntry)
		})
	}

	require.ErrorIs(t, b.SetName(ctx, addr, ""), ErrInvalidEntry)
	require.ErrorIs(t, b.SetName(ctx, "nope", "x"), ErrInvalidEntry)
	require.NoError(t, b.SetName(ctx, addr, "Sour Sam"))
}

func TestBoardClaim(t *testing.T) {
	ctx := context.Background()
	b := NewBoard(NewMemoryStore())

	player, err := crypto.NewKey()
	require.NoError(t, err)
	intruder, err := crypto.NewKey()
	require.NoError(t, err)
	addr := types.Pub2Addr(&player.PublicKey)

	signals := types.PublicSignals{
		StartingMoney: 1200,
		FinalScore:    3170,
		DaysPlayed:    7,
		PlayerKey:     types.PlayerKey(&player.PublicKey),
	}
	stmt := types.Statement([]byte("vk"), signals)
	receipts := receiptMap{string(stmt): {
		Statement: stmt,
		URL:       "https://zkverify-testnet.subscan.io/extrinsic/0xabc",
		Signals:   signals,
	}}

	sig, err := types.SignStatement(player, stmt)
	require.NoError(t, err)

	e, err := b.Claim(ctx, receipts, addr, stmt, sig)
	require.NoError(t, err)
	require.Equal(t, 3170, e.Score)
	require.Equal(t, "https://zkverify-testnet.subscan.io/extrinsic/0xabc", e.ProofURL)
	require.Equal(t, 1, e.Rank)

	_, err = b.Claim(ctx, receipts, addr, stmt, sig)
	require.ErrorIs(t, err, ErrDuplicateClaim)

	// the intruder signs correctly but the proof is not theirs
	isig, err := types.SignStatement(intruder, stmt)
	require.NoError(t, err)
	_, err = b.Claim(ctx, receipts, types.Pub2Addr(&intruder.PublicKey), stmt, isig)
	require.ErrorIs(t, err, ErrPlayerKeyMismatch)

	_, err = b.Claim(ctx, receipts, types.Pub2Addr(&intruder.PublicKey), stmt, sig)
	require.ErrorIs(t, err, types.ErrBadSignature)

	_, err = b.Claim(ctx, receipts, addr, []byte("unknown"), sig)
	require.ErrorIs(t, err, verifier.ErrUnknownStatement)
}

func TestBoardCloseDay(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC)
	b := NewBoard(NewMemoryStore(), WithClock(fixedClock(now)))

	_, err := b.CloseDay(ctx)
	require.ErrorIs(t, err, ErrEmptyLeaderboard)

	addr := newAddress(t)
	_, err = b.AddEntry(ctx, addr, 1800, "https://x.io/p")
	require.NoError(t, err)
	require.NoError(t, b.SetName(ctx, addr, "Citrus Kid"))

	n, err := b.CloseDay(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	top, err := b.Leaderboard(ctx)
	require.NoError(t, err)
	require.Empty(t, top)

	winners, err := b.DailyWinners(ctx)
	require.NoError(t, err)
	require.Len(t, winners, 1)
	require.Equal(t, "Citrus Kid", winners[0].Name)
	require.Equal(t, time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC), winners[0].Day)
}
