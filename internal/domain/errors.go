package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRedirect means the URL failed to parse or named no known
	// operation; no event is produced and no state changes.
	ErrMalformedRedirect = errors.New("malformed redirect URL")

	// ErrMissingParameter means a required redirect or payload field is absent.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrDecryption covers authentication failure (tampering, wrong key or
	// nonce) and plaintext that is not valid payload JSON.
	ErrDecryption = errors.New("decryption failed")

	// ErrSessionNotEstablished guards every operation that needs a session.
	ErrSessionNotEstablished = errors.New("wallet session not established")

	// ErrConnectInProgress is returned when a connect is begun while an
	// earlier handshake is still awaiting its redirect.
	ErrConnectInProgress = errors.New("connect already in progress")

	// ErrAlreadyConnected is returned when a connect is begun while a
	// session is established; disconnect first.
	ErrAlreadyConnected = errors.New("wallet session already established")

	// ErrUnexpectedEvent means an inbound event arrived in a state that
	// cannot consume it.
	ErrUnexpectedEvent = errors.New("unexpected redirect event for current state")

	// ErrRedirectOpen means the OS refused or failed to open the outbound URL.
	ErrRedirectOpen = errors.New("could not open redirect URL")

	// ErrProviderUnavailable means the selected wallet provider cannot build
	// request URLs (unknown provider or capability disabled at startup).
	ErrProviderUnavailable = errors.New("wallet provider unavailable")

	// ErrSubmission means the ledger rejected the signed transaction.
	ErrSubmission = errors.New("transaction submission failed")

	// ErrConfirmationTimeout means the ledger did not confirm the transaction
	// within the relay's deadline.
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")
)

// PeerError is an explicit failure reported by the wallet, either as
// errorCode/errorMessage redirect parameters or as an error field inside a
// decrypted payload. It is a normal negative outcome, not a fault.
type PeerError struct {
	Code    string
	Message string
}

func (e *PeerError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("wallet error: %s", e.Message)
	}
	return fmt.Sprintf("wallet error %s: %s", e.Code, e.Message)
}
