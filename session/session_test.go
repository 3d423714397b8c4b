package session

import (
	"sync"
	"testing"

	"github.com/kysee/lemonzk/game"
	"github.com/stretchr/testify/require"
)

func TestSessionNotifies(t *testing.T) {
	s := New(game.NewEngine(game.NewSeededRand(1)))

	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	s.Do(func(e *game.Engine) { e.BuyIngredients(game.Lemons, 10) })
	s.SetProofURL("https://zkverify-testnet.subscan.io/extrinsic/0x01")
	s.MarkSubmitted()

	require.Len(t, got, 3)
	require.Equal(t, 10, got[0].State.Inventory.Lemons)
	require.Equal(t, "https://zkverify-testnet.subscan.io/extrinsic/0x01", got[1].ProofURL)
	require.False(t, got[1].Submitted)
	require.True(t, got[2].Submitted)

	unsubscribe()
	unsubscribe()
	s.Reset()
	require.Len(t, got, 3)

	snap := s.Snapshot()
	require.Empty(t, snap.ProofURL)
	require.False(t, snap.Submitted)
	require.Equal(t, game.StartingMoney, snap.State.Money)
	require.Equal(t, 1, snap.State.Day)
}

func TestSessionSnapshotIsCopy(t *testing.T) {
	s := New(game.NewEngine(game.NewSeededRand(2)))
	s.Do(func(e *game.Engine) { e.SimulateDay() })

	snap := s.Snapshot()
	snap.State.SalesHistory[0].Sales = 999
	require.NotEqual(t, 999, s.Snapshot().State.SalesHistory[0].Sales)
}

func TestSessionConcurrentSubscribers(t *testing.T) {
	s := New(game.NewEngine(game.NewSeededRand(3)))

	var (
		mtx   sync.Mutex
		calls int
	)
	for i := 0; i < 4; i++ {
		s.Subscribe(func(Snapshot) {
			mtx.Lock()
			calls++
			mtx.Unlock()
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do(func(e *game.Engine) { e.BuyIngredients(game.Ice, 1) })
		}()
	}
	wg.Wait()

	require.Equal(t, 32, calls)
	require.Equal(t, 8, s.Snapshot().State.Inventory.Ice)
}
