package testutil

import (
	"context"
	"sync"

	"walletbridge/internal/domain"
)

// RecordingOpener captures every URL the protocol asks the OS to open.
type RecordingOpener struct {
	mu   sync.Mutex
	Err  error // returned from OpenURL when set
	urls []string
}

func (o *RecordingOpener) OpenURL(_ context.Context, rawURL string) error {
	if o.Err != nil {
		return o.Err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, rawURL)
	return nil
}

// Opened returns the URLs opened so far.
func (o *RecordingOpener) Opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.urls...)
}

// MemoryStateStore is an in-memory WalletStateStore.
type MemoryStateStore struct {
	mu    sync.Mutex
	state domain.WalletState
	set   bool
}

func (m *MemoryStateStore) SaveWalletState(s domain.WalletState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state, m.set = s, true
	return nil
}

func (m *MemoryStateStore) LoadWalletState() (domain.WalletState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.set, nil
}

func (m *MemoryStateStore) ClearWalletState() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state, m.set = domain.WalletState{}, false
	return nil
}

// FakeRelay records submitted transactions and returns a canned signature.
type FakeRelay struct {
	mu        sync.Mutex
	Signature string
	Err       error
	submitted [][]byte
}

func (r *FakeRelay) Relay(_ context.Context, signedTx []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted = append(r.submitted, append([]byte(nil), signedTx...))
	if r.Err != nil {
		return "", r.Err
	}
	return r.Signature, nil
}

// Submitted returns every transaction handed to the relay.
func (r *FakeRelay) Submitted() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.submitted))
	copy(out, r.submitted)
	return out
}

var (
	_ domain.URLOpener        = (*RecordingOpener)(nil)
	_ domain.WalletStateStore = (*MemoryStateStore)(nil)
	_ domain.TransactionRelay = (*FakeRelay)(nil)
)
