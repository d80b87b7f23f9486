package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"walletbridge/internal/crypto"
	"walletbridge/internal/deeplink"
	"walletbridge/internal/domain"
	"walletbridge/internal/ledger"
	"walletbridge/internal/opener"
	"walletbridge/internal/services/request"
	"walletbridge/internal/services/session"
	"walletbridge/internal/store"
)

// Wire bundles the protocol components behind one dependency graph. The key
// pair is generated here, once per app session, and shared by the handshake
// and request services.
type Wire struct {
	Keys        *crypto.KeyPair
	Sessions    *session.Store
	Establisher domain.SessionService
	Responder   domain.RequestService
	Ledger      *ledger.Client
	States      domain.WalletStateStore
	Log         *logrus.Logger
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	log := logrus.New()
	if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		log.SetLevel(level)
	}

	keys, err := crypto.NewKeyPair()
	if err != nil {
		return nil, fmt.Errorf("generating session keys: %w", err)
	}

	urlOpener := cfg.Opener
	if urlOpener == nil {
		if cfg.OpenURLs {
			urlOpener = opener.Exec{}
		} else {
			urlOpener = opener.Print{Log: log}
		}
	}

	provider := deeplink.ResolveProvider(cfg.Provider, cfg.ProviderBase)
	builder := deeplink.NewBuilder(provider, cfg.Cluster, cfg.AppURL, cfg.RedirectBase)

	states := store.NewFileStateStore(cfg.Home)
	sessions := session.NewStore()

	rpc := ledger.NewClient(cfg.RPCURL, cfg.HTTP)
	relay := ledger.NewRelay(rpc, time.Duration(cfg.ConfirmTimeout), log)

	establisher := session.NewEstablisher(keys, sessions, builder, urlOpener, states, log)
	responder := request.NewResponder(keys, sessions, builder, urlOpener, relay, states, log)

	return &Wire{
		Keys:        keys,
		Sessions:    sessions,
		Establisher: establisher,
		Responder:   responder,
		Ledger:      rpc,
		States:      states,
		Log:         log,
	}, nil
}

// HandleRedirect classifies one inbound redirect URL and dispatches it to
// the service that consumes that event. Exactly one URL per invocation; a
// malformed URL is dropped without state changes.
func (w *Wire) HandleRedirect(ctx context.Context, rawURL string) error {
	ev, err := deeplink.Classify(rawURL)
	if err != nil {
		return err
	}
	w.Log.WithField("event", ev.Kind.String()).Debug("redirect received")

	switch ev.Kind {
	case domain.EventConnect:
		return w.Establisher.HandleConnect(ctx, ev.Params)
	case domain.EventError:
		return w.Establisher.HandleError(ev.Params)
	case domain.EventDisconnect:
		return w.Responder.HandleDisconnect(ev.Params)
	case domain.EventSignTransaction:
		return w.Responder.HandleSignTransaction(ctx, ev.Params)
	case domain.EventSignAllTransactions:
		return w.Responder.HandleSignAllTransactions(ctx, ev.Params)
	case domain.EventSignMessage:
		return w.Responder.HandleSignMessage(ctx, ev.Params)
	}
	return fmt.Errorf("%w: unhandled event %v", domain.ErrMalformedRedirect, ev.Kind)
}
