// Package session holds one player's game together with its proof status and
// notifies subscribers when either changes.
package session

import (
	"sync"

	"github.com/kysee/lemonzk/game"
)

type Snapshot struct {
	State     game.GameState
	ProofURL  string
	Submitted bool
}

type Listener func(Snapshot)

type Session struct {
	mtx       sync.Mutex
	engine    *game.Engine
	proofURL  string
	submitted bool

	nextID    int
	listeners map[int]Listener
}

func New(engine *game.Engine) *Session {
	return &Session{
		engine:    engine,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers fn and returns a function that removes it. Listeners
// run after the session lock is released.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	s.mtx.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mtx.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mtx.Lock()
			delete(s.listeners, id)
			s.mtx.Unlock()
		})
	}
}

// Do runs fn against the engine while holding the session lock.
func (s *Session) Do(fn func(e *game.Engine)) {
	s.update(func() { fn(s.engine) })
}

func (s *Session) SetProofURL(url string) {
	s.update(func() { s.proofURL = url })
}

func (s *Session) MarkSubmitted() {
	s.update(func() { s.submitted = true })
}

// Reset starts a new game and forgets the previous proof.
func (s *Session) Reset() {
	s.update(func() {
		s.engine.ResetGame()
		s.proofURL = ""
		s.submitted = false
	})
}

func (s *Session) Snapshot() Snapshot {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		State:     s.engine.State(),
		ProofURL:  s.proofURL,
		Submitted: s.submitted,
	}
}

func (s *Session) update(fn func()) {
	s.mtx.Lock()
	fn()
	snap := s.snapshot()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mtx.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}
