package testutil

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"

	"walletbridge/internal/crypto"
	"walletbridge/internal/domain"
)

// Wallet simulates the external wallet's side of the protocol: it derives
// the same shared secret from its own key pair and builds the inbound
// redirect URLs a real wallet would send back.
type Wallet struct {
	keys *crypto.KeyPair

	// LedgerKey is the fake wallet address reported in the connect payload.
	LedgerKey string
	// Token is the session token this wallet issues on connect.
	Token string

	secret domain.SharedSecret
	bound  bool
}

// NewWallet creates a wallet simulator with fresh keys and a random token.
func NewWallet(t *testing.T) *Wallet {
	t.Helper()
	keys, err := crypto.NewKeyPair()
	if err != nil {
		t.Fatalf("NewKeyPair: %v", err)
	}
	return &Wallet{
		keys:      keys,
		LedgerKey: base58.Encode([]byte("wallet-ledger-address-0123456789")),
		Token:     uuid.NewString(),
	}
}

// Secret exposes the derived session secret for tests that tamper with
// ciphertexts or re-encrypt payloads.
func (w *Wallet) Secret() domain.SharedSecret { return w.secret }

// ConnectRedirect binds the wallet to the app's public key and returns the
// inbound connect URL carrying the encrypted {public_key, session} payload.
func (w *Wallet) ConnectRedirect(t *testing.T, dappPub domain.X25519Public, redirectBase string) string {
	t.Helper()
	w.secret = w.keys.SharedSecret(dappPub)
	w.bound = true

	env := w.seal(t, domain.ConnectPayload{PublicKey: w.LedgerKey, Session: w.Token})
	q := url.Values{}
	q.Set("phantom_encryption_public_key", w.keys.Public().Base58())
	q.Set("nonce", base58.Encode(env.Nonce[:]))
	q.Set("data", base58.Encode(env.Ciphertext))
	return redirectBase + "/onConnect?" + q.Encode()
}

// SignTransactionRedirect returns the inbound response to a sign request.
func (w *Wallet) SignTransactionRedirect(t *testing.T, redirectBase string, res domain.SignTransactionResult) string {
	return w.encryptedRedirect(t, redirectBase, "onSignTransaction", res)
}

// SignAllTransactionsRedirect returns the inbound response to a batch request.
func (w *Wallet) SignAllTransactionsRedirect(t *testing.T, redirectBase string, res domain.SignAllTransactionsResult) string {
	return w.encryptedRedirect(t, redirectBase, "onSignAllTransactions", res)
}

// SignMessageRedirect returns the inbound response to a message-sign request.
func (w *Wallet) SignMessageRedirect(t *testing.T, redirectBase string, res domain.SignMessageResult) string {
	return w.encryptedRedirect(t, redirectBase, "onSignMessage", res)
}

// DisconnectRedirect returns a wallet-initiated disconnect event.
func (w *Wallet) DisconnectRedirect(t *testing.T, redirectBase string) string {
	return w.encryptedRedirect(t, redirectBase, "onDisconnect", struct{}{})
}

// ErrorRedirect returns an explicit wallet failure event.
func (w *Wallet) ErrorRedirect(redirectBase, code, message string) string {
	q := url.Values{}
	q.Set("errorCode", code)
	q.Set("errorMessage", message)
	return redirectBase + "/onConnect?" + q.Encode()
}

func (w *Wallet) encryptedRedirect(t *testing.T, redirectBase, callback string, payload any) string {
	t.Helper()
	env := w.seal(t, payload)
	q := url.Values{}
	q.Set("nonce", base58.Encode(env.Nonce[:]))
	q.Set("data", base58.Encode(env.Ciphertext))
	return redirectBase + "/" + callback + "?" + q.Encode()
}

func (w *Wallet) seal(t *testing.T, payload any) domain.Envelope {
	t.Helper()
	if !w.bound {
		t.Fatal("wallet not bound: call ConnectRedirect first")
	}
	env, err := crypto.Encrypt(payload, w.secret)
	if err != nil {
		t.Fatalf("wallet encrypt: %v", err)
	}
	return env
}
