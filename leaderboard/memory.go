package leaderboard

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryStore struct {
	mtx     sync.RWMutex
	entries []Entry
	nextID  int64
	names   map[string]string
	winners []Winner
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{names: make(map[string]string)}
}

func (m *MemoryStore) Insert(ctx context.Context, e Entry) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if e.Statement != "" {
		for _, o := range m.entries {
			if o.Statement == e.Statement {
				return Entry{}, ErrDuplicateClaim
			}
		}
	}
	m.nextID++
	e.ID = m.nextID
	e.Rank = 0
	m.entries = append(m.entries, e)
	return e, nil
}

// ordered returns the entries sorted by score, ranks assigned. Callers hold
// the lock.
func (m *MemoryStore) ordered() []Entry {
	out := append([]Entry(nil), m.entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func (m *MemoryStore) Top(ctx context.Context, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	out := m.ordered()
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Rank(ctx context.Context, address string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	best, found := 0, false
	for _, e := range m.entries {
		if e.Address == address && (!found || e.Score > best) {
			best, found = e.Score, true
		}
	}
	if !found {
		return 0, ErrUnknownPlayer
	}
	rank := 1
	for _, e := range m.entries {
		if e.Score > best {
			rank++
		}
	}
	return rank, nil
}

func (m *MemoryStore) SetName(ctx context.Context, address, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.names[address] = name
	return nil
}

func (m *MemoryStore) Rollover(ctx context.Context, day time.Time, topN int, keep time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if len(m.entries) == 0 {
		return 0, ErrEmptyLeaderboard
	}
	top := m.ordered()
	if len(top) > topN {
		top = top[:topN]
	}
	for _, e := range top {
		name, ok := m.names[e.Address]
		if !ok {
			name = e.Address
		}
		m.winners = append(m.winners, Winner{
			Day:     day,
			Address: e.Address,
			Name:    name,
			Score:   e.Score,
			Rank:    e.Rank,
		})
	}

	cutoff := day.Add(-keep)
	kept := m.winners[:0]
	for _, w := range m.winners {
		if !w.Day.Before(cutoff) {
			kept = append(kept, w)
		}
	}
	m.winners = kept
	m.entries = nil
	return len(top), nil
}

func (m *MemoryStore) Winners(ctx context.Context, since time.Time) ([]Winner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	type key struct {
		day     int64
		address string
	}
	best := make(map[key]Winner)
	for _, w := range m.winners {
		if w.Day.Before(since) {
			continue
		}
		k := key{w.Day.Unix(), w.Address}
		if o, ok := best[k]; !ok || w.Rank < o.Rank {
			best[k] = w
		}
	}

	out := make([]Winner, 0, len(best))
	for _, w := range best {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.After(out[j].Day)
		}
		return out[i].Rank < out[j].Rank
	})
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
