package request

import (
	"context"
	"fmt"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"walletbridge/internal/crypto"
	"walletbridge/internal/deeplink"
	"walletbridge/internal/domain"
	"walletbridge/internal/services/session"
)

// Responder builds encrypted, session-bound wallet requests and processes
// their responses. Every outbound call is fire-and-forget: it returns once
// the redirect is dispatched, and the wallet's answer arrives later as an
// independent inbound event.
//
// The protocol carries no request identifier back from the wallet, so
// in-flight sign requests cannot be told apart. The responder keeps a single
// pending-callback slot with last-writer-wins semantics: a second sign
// request issued before the first response arrives replaces the first
// request's callback, and the next inbound response resumes only the most
// recent caller.
type Responder struct {
	keys     *crypto.KeyPair
	sessions *session.Store
	builder  *deeplink.Builder
	opener   domain.URLOpener
	relay    domain.TransactionRelay
	states   domain.WalletStateStore
	log      logrus.FieldLogger

	mu      sync.Mutex
	pending domain.SignCallback
}

// NewResponder constructs the request/response driver.
func NewResponder(
	keys *crypto.KeyPair,
	sessions *session.Store,
	builder *deeplink.Builder,
	opener domain.URLOpener,
	relay domain.TransactionRelay,
	states domain.WalletStateStore,
	log logrus.FieldLogger,
) *Responder {
	return &Responder{
		keys:     keys,
		sessions: sessions,
		builder:  builder,
		opener:   opener,
		relay:    relay,
		states:   states,
		log:      log,
	}
}

// currentSession guards every session-bound operation. Without an
// established session nothing is encrypted and no redirect is opened.
func (r *Responder) currentSession() (domain.Session, error) {
	sess, ok := r.sessions.Current()
	if !ok || r.sessions.State() != domain.StateConnected {
		return domain.Session{}, domain.ErrSessionNotEstablished
	}
	return sess, nil
}

// SignTransaction asks the wallet to sign one serialized transaction. The
// caller is responsible for the transaction's fee payer and recent blockhash.
// cb resumes when the matching response has been decrypted and the signed
// transaction confirmed on the ledger; the return value only acknowledges
// that the request was dispatched.
func (r *Responder) SignTransaction(ctx context.Context, tx []byte, cb domain.SignCallback) error {
	sess, err := r.currentSession()
	if err != nil {
		return err
	}

	payload := domain.SignTransactionPayload{
		Session:     sess.Token,
		Transaction: base58.Encode(tx),
	}
	if err := r.send(ctx, payload, sess.Secret, r.builder.SignTransaction); err != nil {
		return err
	}
	r.setPending(cb)

	r.log.WithField("bytes", len(tx)).Info("sign request dispatched")
	return nil
}

// HandleSignTransaction consumes the wallet's sign response. A payload
// carrying the signed transaction is relayed to the ledger and the pending
// callback resumed with the confirmed signature; a payload carrying an error
// resumes the callback with that failure instead.
func (r *Responder) HandleSignTransaction(ctx context.Context, params map[string]string) error {
	sess, err := r.currentSession()
	if err != nil {
		return fmt.Errorf("%w: sign response without session", domain.ErrUnexpectedEvent)
	}

	var res domain.SignTransactionResult
	if err := r.open(params, sess.Secret, &res); err != nil {
		return err
	}
	cb := r.takePending()

	switch {
	case res.Error != "":
		perr := &domain.PeerError{Message: res.Error}
		if cb != nil {
			cb("", perr)
		}
		return perr

	case res.Transaction != "":
		signedTx, err := base58.Decode(res.Transaction)
		if err != nil {
			return fmt.Errorf("%w: transaction is not base58", domain.ErrDecryption)
		}
		signature, err := r.relay.Relay(ctx, signedTx)
		if err != nil {
			if cb != nil {
				cb("", err)
			}
			return err
		}
		if cb != nil {
			cb(signature, nil)
		}
		r.log.WithField("signature", signature).Info("transaction confirmed")
		return nil

	case res.Signature != "":
		// The wallet submitted the transaction itself.
		if cb != nil {
			cb(res.Signature, nil)
		}
		return nil
	}
	return fmt.Errorf("%w: sign response carries no transaction, signature or error", domain.ErrMissingParameter)
}

// SignAllTransactions asks the wallet to sign a batch. The response is
// treated as an acknowledgement only; no per-transaction outcome is parsed
// and no callback is registered.
func (r *Responder) SignAllTransactions(ctx context.Context, txs [][]byte) error {
	sess, err := r.currentSession()
	if err != nil {
		return err
	}

	encoded := make([]string, len(txs))
	for i, tx := range txs {
		encoded[i] = base58.Encode(tx)
	}
	payload := domain.SignAllTransactionsPayload{Session: sess.Token, Transactions: encoded}
	if err := r.send(ctx, payload, sess.Secret, r.builder.SignAllTransactions); err != nil {
		return err
	}

	r.log.WithField("count", len(txs)).Info("batch sign request dispatched")
	return nil
}

// HandleSignAllTransactions consumes the batch acknowledgement.
func (r *Responder) HandleSignAllTransactions(_ context.Context, params map[string]string) error {
	sess, err := r.currentSession()
	if err != nil {
		return fmt.Errorf("%w: batch response without session", domain.ErrUnexpectedEvent)
	}

	var res domain.SignAllTransactionsResult
	if err := r.open(params, sess.Secret, &res); err != nil {
		return err
	}
	if res.Error != "" {
		return &domain.PeerError{Message: res.Error}
	}
	r.log.WithField("count", len(res.Transactions)).Info("batch sign acknowledged")
	return nil
}

// SignMessage asks the wallet to sign an arbitrary message.
func (r *Responder) SignMessage(ctx context.Context, message []byte, cb domain.SignCallback) error {
	sess, err := r.currentSession()
	if err != nil {
		return err
	}

	payload := domain.SignMessagePayload{
		Session: sess.Token,
		Message: base58.Encode(message),
		Display: "utf8",
	}
	if err := r.send(ctx, payload, sess.Secret, r.builder.SignMessage); err != nil {
		return err
	}
	r.setPending(cb)
	return nil
}

// HandleSignMessage consumes the wallet's message signature.
func (r *Responder) HandleSignMessage(_ context.Context, params map[string]string) error {
	sess, err := r.currentSession()
	if err != nil {
		return fmt.Errorf("%w: message response without session", domain.ErrUnexpectedEvent)
	}

	var res domain.SignMessageResult
	if err := r.open(params, sess.Secret, &res); err != nil {
		return err
	}
	cb := r.takePending()

	if res.Error != "" {
		perr := &domain.PeerError{Message: res.Error}
		if cb != nil {
			cb("", perr)
		}
		return perr
	}
	if res.Signature == "" {
		return fmt.Errorf("%w: signature in message response", domain.ErrMissingParameter)
	}
	if cb != nil {
		cb(res.Signature, nil)
	}
	return nil
}

// Disconnect tears the session down. With no session it degrades to a local
// logout. Otherwise it notifies the wallet and clears local state eagerly,
// without waiting for the inbound disconnect event.
func (r *Responder) Disconnect(ctx context.Context) error {
	sess, err := r.currentSession()
	if err != nil {
		r.Logout()
		return nil
	}

	sendErr := r.send(ctx, domain.DisconnectPayload{Session: sess.Token}, sess.Secret, r.builder.Disconnect)
	// Local state goes regardless: the user asked to disconnect.
	r.Logout()
	return sendErr
}

// HandleDisconnect consumes a wallet-initiated disconnect.
func (r *Responder) HandleDisconnect(map[string]string) error {
	r.Logout()
	r.log.Info("wallet disconnected")
	return nil
}

// Logout clears the session, the persisted wallet record and any pending
// callback. Idempotent; never fails.
func (r *Responder) Logout() {
	r.sessions.Clear()
	r.takePending()
	if err := r.states.ClearWalletState(); err != nil {
		r.log.WithError(err).Warn("could not clear wallet state")
	}
}

// send encrypts payload under secret, builds the operation URL and opens it.
func (r *Responder) send(
	ctx context.Context,
	payload any,
	secret domain.SharedSecret,
	build func(domain.X25519Public, domain.Envelope) (string, error),
) error {
	env, err := crypto.Encrypt(payload, secret)
	if err != nil {
		return err
	}
	rawURL, err := build(r.keys.Public(), env)
	if err != nil {
		return err
	}
	if err := r.opener.OpenURL(ctx, rawURL); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRedirectOpen, err)
	}
	return nil
}

// open parses and decrypts an inbound response envelope.
func (r *Responder) open(params map[string]string, secret domain.SharedSecret, out any) error {
	env, err := deeplink.ParseEnvelope(params)
	if err != nil {
		return err
	}
	return crypto.Decrypt(env, secret, out)
}

func (r *Responder) setPending(cb domain.SignCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending != nil {
		r.log.Warn("replacing pending sign callback; earlier request will never resume")
	}
	r.pending = cb
}

func (r *Responder) takePending() domain.SignCallback {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb := r.pending
	r.pending = nil
	return cb
}

// Compile-time assertion that Responder implements domain.RequestService.
var _ domain.RequestService = (*Responder)(nil)
