package session

import (
	"context"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"walletbridge/internal/crypto"
	"walletbridge/internal/deeplink"
	"walletbridge/internal/domain"
)

// Establisher drives the connect handshake. BeginConnect opens the outbound
// connect URL and parks the state machine in connecting; the wallet's answer
// arrives later as an independent redirect and is consumed by HandleConnect.
// There is no timeout here: a handshake the wallet never answers stays in
// connecting until the caller aborts or retries.
type Establisher struct {
	keys     *crypto.KeyPair
	sessions *Store
	builder  *deeplink.Builder
	opener   domain.URLOpener
	states   domain.WalletStateStore
	log      logrus.FieldLogger
}

// NewEstablisher constructs the handshake driver.
func NewEstablisher(
	keys *crypto.KeyPair,
	sessions *Store,
	builder *deeplink.Builder,
	opener domain.URLOpener,
	states domain.WalletStateStore,
	log logrus.FieldLogger,
) *Establisher {
	return &Establisher{
		keys:     keys,
		sessions: sessions,
		builder:  builder,
		opener:   opener,
		states:   states,
		log:      log,
	}
}

// BeginConnect builds the connect URL embedding our encryption public key and
// hands it to the OS. Requires the idle state. The call does not block on the
// wallet; success here only means the redirect was dispatched.
func (e *Establisher) BeginConnect(ctx context.Context) error {
	if err := e.sessions.BeginHandshake(); err != nil {
		return err
	}

	rawURL, err := e.builder.Connect(e.keys.Public())
	if err != nil {
		e.sessions.AbortHandshake()
		return err
	}
	if err := e.opener.OpenURL(ctx, rawURL); err != nil {
		e.sessions.AbortHandshake()
		return fmt.Errorf("%w: %v", domain.ErrRedirectOpen, err)
	}

	e.log.WithField("provider", e.builder.Provider()).Info("connect redirect opened")
	return nil
}

// HandleConnect consumes the inbound connect event: derives the shared
// secret from the wallet's encryption key, decrypts the handshake payload and
// establishes the session. Any failure returns the state machine to idle and
// surfaces the error; the caller decides whether to retry.
func (e *Establisher) HandleConnect(ctx context.Context, params map[string]string) error {
	if state := e.sessions.State(); state != domain.StateConnecting {
		return fmt.Errorf("%w: connect event in state %s", domain.ErrUnexpectedEvent, state)
	}

	sess, err := e.completeHandshake(params)
	if err != nil {
		e.sessions.AbortHandshake()
		return err
	}
	e.sessions.Set(sess)

	if err := e.states.SaveWalletState(domain.WalletState{
		Connected:       true,
		WalletPublicKey: sess.WalletPublicKey,
		Provider:        e.builder.Provider(),
	}); err != nil {
		// The session itself is healthy; only the cross-run record failed.
		e.log.WithError(err).Warn("could not persist wallet state")
	}

	e.log.WithField("wallet", sess.WalletPublicKey).Info("wallet session established")
	return nil
}

func (e *Establisher) completeHandshake(params map[string]string) (domain.Session, error) {
	peerKeyRaw, ok := params["phantom_encryption_public_key"]
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: phantom_encryption_public_key", domain.ErrMissingParameter)
	}
	peerKeyBytes, err := base58.Decode(peerKeyRaw)
	if err != nil || len(peerKeyBytes) != 32 {
		return domain.Session{}, fmt.Errorf("%w: bad peer encryption key", domain.ErrDecryption)
	}
	var peerKey domain.X25519Public
	copy(peerKey[:], peerKeyBytes)

	env, err := deeplink.ParseEnvelope(params)
	if err != nil {
		return domain.Session{}, err
	}

	secret := e.keys.SharedSecret(peerKey)

	var payload domain.ConnectPayload
	if err := crypto.Decrypt(env, secret, &payload); err != nil {
		return domain.Session{}, err
	}
	if payload.PublicKey == "" {
		return domain.Session{}, fmt.Errorf("%w: public_key in connect payload", domain.ErrMissingParameter)
	}
	if payload.Session == "" {
		return domain.Session{}, fmt.Errorf("%w: session in connect payload", domain.ErrMissingParameter)
	}

	return domain.Session{
		WalletPublicKey:   payload.PublicKey,
		Token:             payload.Session,
		Secret:            secret,
		PeerEncryptionKey: peerKey,
	}, nil
}

// HandleError consumes a wallet-reported error event: any state returns to
// idle and the wallet's message is surfaced verbatim.
func (e *Establisher) HandleError(params map[string]string) error {
	e.sessions.Clear()
	return &domain.PeerError{
		Code:    params["errorCode"],
		Message: params["errorMessage"],
	}
}

// State reports the current handshake state.
func (e *Establisher) State() domain.SessionState { return e.sessions.State() }

// Compile-time assertion that Establisher implements domain.SessionService.
var _ domain.SessionService = (*Establisher)(nil)
