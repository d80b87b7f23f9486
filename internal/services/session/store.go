package session

import (
	"sync"

	"walletbridge/internal/domain"
	"walletbridge/internal/util/memzero"
)

// Store is the single process-wide holder of the negotiated wallet session
// and the handshake state machine (idle -> connecting -> connected, back to
// idle on failure). It is created empty at app start, populated only by a
// successful handshake and cleared on logout or disconnect. The protocol
// allows at most one session at a time.
type Store struct {
	mu    sync.Mutex
	state domain.SessionState
	sess  *domain.Session
}

// NewStore returns an empty store in the idle state.
func NewStore() *Store { return &Store{state: domain.StateIdle} }

// State reports the current handshake state.
func (s *Store) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BeginHandshake moves idle -> connecting. A handshake already in flight or
// an established session blocks a new attempt.
func (s *Store) BeginHandshake() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case domain.StateConnecting:
		return domain.ErrConnectInProgress
	case domain.StateConnected:
		return domain.ErrAlreadyConnected
	}
	s.state = domain.StateConnecting
	return nil
}

// AbortHandshake returns to idle from any state without touching an
// established session's teardown path; used on handshake failure.
func (s *Store) AbortHandshake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.StateIdle
}

// Set installs the session negotiated by the handshake and moves to connected.
func (s *Store) Set(sess domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = &sess
	s.state = domain.StateConnected
}

// Current returns the active session, reporting whether one exists.
func (s *Store) Current() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return domain.Session{}, false
	}
	return *s.sess, true
}

// Clear drops the session, zeroes its secret and returns to idle. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess != nil {
		memzero.Zero(s.sess.Secret[:])
		s.sess = nil
	}
	s.state = domain.StateIdle
}
