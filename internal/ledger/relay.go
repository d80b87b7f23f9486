package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"walletbridge/internal/domain"
)

// DefaultConfirmTimeout bounds how long the relay polls for confirmation.
const DefaultConfirmTimeout = 60 * time.Second

var errNotConfirmed = errors.New("not yet confirmed")

// Relay submits wallet-signed transactions and awaits their confirmation.
type Relay struct {
	client  domain.LedgerClient
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewRelay wraps a ledger client. A non-positive timeout falls back to
// DefaultConfirmTimeout.
func NewRelay(client domain.LedgerClient, timeout time.Duration, log logrus.FieldLogger) *Relay {
	if timeout <= 0 {
		timeout = DefaultConfirmTimeout
	}
	return &Relay{client: client, timeout: timeout, log: log}
}

// Relay submits signedTx and polls signature status with exponential backoff
// until the ledger confirms it or the deadline passes.
func (r *Relay) Relay(ctx context.Context, signedTx []byte) (string, error) {
	signature, err := r.client.SendTransaction(ctx, signedTx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSubmission, err)
	}
	r.log.WithField("signature", signature).Debug("transaction submitted")

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	policy := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(500*time.Millisecond),
		backoff.WithMaxInterval(5*time.Second),
	), ctx)

	err = backoff.Retry(func() error {
		confirmed, err := r.client.SignatureStatus(ctx, signature)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !confirmed {
			return errNotConfirmed
		}
		return nil
	}, policy)
	if err != nil {
		if errors.Is(err, errNotConfirmed) || errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", domain.ErrConfirmationTimeout, signature)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrSubmission, err)
	}
	return signature, nil
}

var _ domain.TransactionRelay = (*Relay)(nil)
