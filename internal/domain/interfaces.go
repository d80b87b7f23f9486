package domain

import "context"

// URLOpener hands an outbound redirect URL to the OS. Opening is
// fire-and-forget: the call returns once the URL is dispatched, and the
// wallet's answer arrives later as an independent inbound redirect.
type URLOpener interface {
	OpenURL(ctx context.Context, rawURL string) error
}

// Provider builds wallet request URLs for one wallet vendor. An unavailable
// provider is selected at startup when the configured vendor is unknown; its
// RequestURL always fails with ErrProviderUnavailable.
type Provider interface {
	Name() string
	RequestURL(operation string, params map[string]string) (string, error)
}

// WalletStateStore persists the non-secret connection record across runs.
type WalletStateStore interface {
	SaveWalletState(s WalletState) error
	LoadWalletState() (WalletState, bool, error)
	ClearWalletState() error
}

// LedgerClient is the minimal RPC surface the relay needs from a ledger node.
type LedgerClient interface {
	// SendTransaction submits signed transaction bytes and returns the
	// transaction signature the ledger will confirm under.
	SendTransaction(ctx context.Context, signedTx []byte) (string, error)
	// SignatureStatus reports whether the signature has been confirmed.
	SignatureStatus(ctx context.Context, signature string) (bool, error)
}

// TransactionRelay submits a wallet-signed transaction and awaits confirmation.
type TransactionRelay interface {
	Relay(ctx context.Context, signedTx []byte) (signature string, err error)
}

// SessionService drives the connect handshake.
type SessionService interface {
	// BeginConnect opens the outbound connect URL. Completion is
	// asynchronous via HandleConnect.
	BeginConnect(ctx context.Context) error
	// HandleConnect consumes the inbound connect event and establishes the
	// session.
	HandleConnect(ctx context.Context, params map[string]string) error
	// HandleError consumes a peer-reported error event and resets to idle.
	HandleError(params map[string]string) error
	// State reports the current handshake state.
	State() SessionState
}

// RequestService builds encrypted requests and processes their responses.
type RequestService interface {
	SignTransaction(ctx context.Context, tx []byte, cb SignCallback) error
	SignAllTransactions(ctx context.Context, txs [][]byte) error
	SignMessage(ctx context.Context, message []byte, cb SignCallback) error
	Disconnect(ctx context.Context) error
	Logout()

	HandleSignTransaction(ctx context.Context, params map[string]string) error
	HandleSignAllTransactions(ctx context.Context, params map[string]string) error
	HandleSignMessage(ctx context.Context, params map[string]string) error
	HandleDisconnect(params map[string]string) error
}
