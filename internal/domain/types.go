package domain

import "github.com/mr-tron/base58"

// X25519Public is a Curve25519 public key used for the session key exchange.
type X25519Public [32]byte

// Base58 renders the key in the wire encoding used on redirect URLs.
func (p X25519Public) Base58() string { return base58.Encode(p[:]) }

// X25519Private is a Curve25519 private key. It never leaves the process.
type X25519Private [32]byte

// SharedSecret is the symmetric key agreed with the wallet via ECDH.
// Derived exactly once per successful handshake and never transmitted.
type SharedSecret [32]byte

// NonceSize is the XSalsa20-Poly1305 nonce length in bytes.
const NonceSize = 24

// Envelope is a nonce plus authenticated ciphertext, carried as opaque
// base58 parameters on a redirect URL.
type Envelope struct {
	Nonce      [NonceSize]byte
	Ciphertext []byte
}

// SessionState tracks the handshake state machine.
type SessionState int

const (
	StateIdle SessionState = iota
	StateConnecting
	StateConnected
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	}
	return "unknown"
}

// Session is the negotiated wallet session. At most one exists at a time:
// created by a successful handshake, cleared by logout or disconnect.
type Session struct {
	// WalletPublicKey is the wallet's ledger address (base58), reported in
	// the decrypted connect payload.
	WalletPublicKey string
	// Token is the opaque session string issued by the wallet; echoed on
	// every subsequent request to prove the correlated session.
	Token string
	// Secret keys every envelope exchanged during this session.
	Secret SharedSecret
	// PeerEncryptionKey is the wallet's X25519 key the secret was derived from.
	PeerEncryptionKey X25519Public
}

// EventKind classifies an inbound redirect.
type EventKind int

const (
	EventConnect EventKind = iota
	EventDisconnect
	EventSignTransaction
	EventSignAllTransactions
	EventSignMessage
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventConnect:
		return "connect"
	case EventDisconnect:
		return "disconnect"
	case EventSignTransaction:
		return "signTransaction"
	case EventSignAllTransactions:
		return "signAllTransactions"
	case EventSignMessage:
		return "signMessage"
	case EventError:
		return "error"
	}
	return "unknown"
}

// Event is one classified redirect with its raw query parameters.
// Produced by the deeplink router, consumed exactly once.
type Event struct {
	Kind   EventKind
	Params map[string]string
}

// Param returns the named query parameter, reporting presence.
func (e Event) Param(name string) (string, bool) {
	v, ok := e.Params[name]
	return v, ok
}

// ConnectPayload is the decrypted body of a successful connect response.
type ConnectPayload struct {
	PublicKey string `json:"public_key"`
	Session   string `json:"session"`
}

// SignTransactionPayload is the encrypted body of an outbound sign request.
type SignTransactionPayload struct {
	Session     string `json:"session"`
	Transaction string `json:"transaction"`
}

// SignTransactionResult is the decrypted body of a sign response. Exactly one
// field is expected to be set.
type SignTransactionResult struct {
	Transaction string `json:"transaction,omitempty"`
	Signature   string `json:"signature,omitempty"`
	Error       string `json:"error,omitempty"`
}

// SignAllTransactionsPayload is the encrypted body of an outbound batch request.
type SignAllTransactionsPayload struct {
	Session      string   `json:"session"`
	Transactions []string `json:"transactions"`
}

// SignAllTransactionsResult acknowledges a batch. The protocol carries no
// per-transaction outcome; callers must not assume individual confirmation.
type SignAllTransactionsResult struct {
	Transactions []string `json:"transactions,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// SignMessagePayload is the encrypted body of an outbound message-sign request.
type SignMessagePayload struct {
	Session string `json:"session"`
	Message string `json:"message"`
	Display string `json:"display,omitempty"`
}

// SignMessageResult is the decrypted body of a message-sign response.
type SignMessageResult struct {
	Signature string `json:"signature,omitempty"`
	Error     string `json:"error,omitempty"`
}

// DisconnectPayload is the encrypted body of an outbound disconnect request.
type DisconnectPayload struct {
	Session string `json:"session"`
}

// WalletState is the small record persisted across app runs: enough to show
// the user as connected without holding any key material.
type WalletState struct {
	Connected       bool   `json:"connected"`
	WalletPublicKey string `json:"wallet_public_key"`
	Provider        string `json:"provider"`
}

// SignCallback resumes a caller when the matching sign response arrives and,
// for single transactions, the ledger has confirmed it. On failure it is
// invoked with an empty signature and the error.
type SignCallback func(signature string, err error)
