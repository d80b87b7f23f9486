package store_test

import (
	"testing"

	"walletbridge/internal/domain"
	"walletbridge/internal/store"
)

func TestStateStoreRoundTrip(t *testing.T) {
	s := store.NewFileStateStore(t.TempDir())

	if _, ok, err := s.LoadWalletState(); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	want := domain.WalletState{
		Connected:       true,
		WalletPublicKey: "Wallet1abc",
		Provider:        "phantom",
	}
	if err := s.SaveWalletState(want); err != nil {
		t.Fatalf("SaveWalletState: %v", err)
	}

	got, ok, err := s.LoadWalletState()
	if err != nil || !ok {
		t.Fatalf("LoadWalletState: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("state = %+v, want %+v", got, want)
	}
}

func TestStateStoreClear(t *testing.T) {
	s := store.NewFileStateStore(t.TempDir())

	if err := s.SaveWalletState(domain.WalletState{Connected: true}); err != nil {
		t.Fatalf("SaveWalletState: %v", err)
	}
	if err := s.ClearWalletState(); err != nil {
		t.Fatalf("ClearWalletState: %v", err)
	}
	if _, ok, err := s.LoadWalletState(); err != nil || ok {
		t.Fatalf("state survived clear: ok=%v err=%v", ok, err)
	}
	// Clearing twice is fine.
	if err := s.ClearWalletState(); err != nil {
		t.Fatalf("second ClearWalletState: %v", err)
	}
}
