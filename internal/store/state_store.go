package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"walletbridge/internal/domain"
)

const walletStateFile = "wallet_state.json"

// FileStateStore persists the non-secret wallet connection record to disk:
// the connection flag, the wallet's ledger address and the provider name.
// No key material is ever written here.
type FileStateStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStateStore returns a store rooted at dir.
func NewFileStateStore(dir string) *FileStateStore {
	return &FileStateStore{dir: dir}
}

// SaveWalletState writes the record; called on successful connect.
func (s *FileStateStore) SaveWalletState(state domain.WalletState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(filepath.Join(s.dir, walletStateFile), state, 0o600)
}

// LoadWalletState retrieves the record, reporting whether one exists.
func (s *FileStateStore) LoadWalletState() (domain.WalletState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var state domain.WalletState
	ok, err := readJSON(filepath.Join(s.dir, walletStateFile), &state)
	if err != nil {
		return domain.WalletState{}, false, err
	}
	return state, ok, nil
}

// ClearWalletState removes the record; called on logout. Idempotent.
func (s *FileStateStore) ClearWalletState() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, walletStateFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Compile-time assertion that FileStateStore implements domain.WalletStateStore.
var _ domain.WalletStateStore = (*FileStateStore)(nil)
