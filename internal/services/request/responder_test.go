package request_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"walletbridge/internal/crypto"
	"walletbridge/internal/deeplink"
	"walletbridge/internal/domain"
	"walletbridge/internal/services/request"
	"walletbridge/internal/services/session"
	"walletbridge/internal/testutil"
)

const redirectBase = "walletbridge:/"

type rig struct {
	keys   *crypto.KeyPair
	store  *session.Store
	opener *testutil.RecordingOpener
	states *testutil.MemoryStateStore
	relay  *testutil.FakeRelay
	est    *session.Establisher
	resp   *request.Responder
	wallet *testutil.Wallet
}

// newRig wires a responder. With connect=true it runs the full handshake
// against the wallet simulator first.
func newRig(t *testing.T, connect bool) *rig {
	t.Helper()
	keys, err := crypto.NewKeyPair()
	require.NoError(t, err)

	store := session.NewStore()
	opener := &testutil.RecordingOpener{}
	states := &testutil.MemoryStateStore{}
	relay := &testutil.FakeRelay{Signature: "5ConfirmedSignature"}
	builder := deeplink.NewBuilder(
		deeplink.ResolveProvider(deeplink.ProviderPhantom, ""),
		"devnet", "https://dapp.example.com", redirectBase,
	)
	log := testutil.Logger()
	est := session.NewEstablisher(keys, store, builder, opener, states, log)
	resp := request.NewResponder(keys, store, builder, opener, relay, states, log)
	wallet := testutil.NewWallet(t)

	r := &rig{
		keys: keys, store: store, opener: opener, states: states,
		relay: relay, est: est, resp: resp, wallet: wallet,
	}
	if connect {
		require.NoError(t, est.BeginConnect(context.Background()))
		r.feed(t, wallet.ConnectRedirect(t, keys.Public(), redirectBase))
		require.Equal(t, domain.StateConnected, est.State())
	}
	return r
}

// feed routes one inbound URL to the right handler, mirroring the app's
// dispatcher.
func (r *rig) feed(t *testing.T, rawURL string) error {
	t.Helper()
	ev, err := deeplink.Classify(rawURL)
	require.NoError(t, err)

	ctx := context.Background()
	switch ev.Kind {
	case domain.EventConnect:
		return r.est.HandleConnect(ctx, ev.Params)
	case domain.EventDisconnect:
		return r.resp.HandleDisconnect(ev.Params)
	case domain.EventSignTransaction:
		return r.resp.HandleSignTransaction(ctx, ev.Params)
	case domain.EventSignAllTransactions:
		return r.resp.HandleSignAllTransactions(ctx, ev.Params)
	case domain.EventSignMessage:
		return r.resp.HandleSignMessage(ctx, ev.Params)
	}
	t.Fatalf("unhandled event %v", ev.Kind)
	return nil
}

// lastOutbound decrypts the payload of the most recently opened URL with the
// wallet's secret, proving the wallet could read it.
func (r *rig) lastOutbound(t *testing.T, out any) *url.URL {
	t.Helper()
	opened := r.opener.Opened()
	require.NotEmpty(t, opened)

	u, err := url.Parse(opened[len(opened)-1])
	require.NoError(t, err)

	q := u.Query()
	nonce, err := base58.Decode(q.Get("nonce"))
	require.NoError(t, err)
	data, err := base58.Decode(q.Get("payload"))
	require.NoError(t, err)

	var env domain.Envelope
	copy(env.Nonce[:], nonce)
	env.Ciphertext = data
	require.NoError(t, crypto.Decrypt(env, r.wallet.Secret(), out))
	return u
}

// Connected-only operations must fail from idle without opening any URL.
func TestOperationsRequireSession(t *testing.T) {
	r := newRig(t, false)
	ctx := context.Background()

	err := r.resp.SignTransaction(ctx, []byte{1}, nil)
	require.ErrorIs(t, err, domain.ErrSessionNotEstablished)

	err = r.resp.SignAllTransactions(ctx, [][]byte{{1}})
	require.ErrorIs(t, err, domain.ErrSessionNotEstablished)

	err = r.resp.SignMessage(ctx, []byte("hi"), nil)
	require.ErrorIs(t, err, domain.ErrSessionNotEstablished)

	require.Empty(t, r.opener.Opened(), "no redirect may be opened without a session")
}

// Disconnect with no session degrades to a local logout: no redirect opened.
func TestDisconnectWithoutSessionIsLocal(t *testing.T) {
	r := newRig(t, false)

	require.NoError(t, r.resp.Disconnect(context.Background()))
	require.Empty(t, r.opener.Opened())
	require.Equal(t, domain.StateIdle, r.est.State())
}

func TestSignTransactionRoundTrip(t *testing.T) {
	r := newRig(t, true)
	unsignedTx := []byte("serialized-unsigned-transaction")

	var gotSig string
	var calls int
	err := r.resp.SignTransaction(context.Background(), unsignedTx, func(sig string, err error) {
		calls++
		require.NoError(t, err)
		gotSig = sig
	})
	require.NoError(t, err)

	// The outbound request is readable by the wallet and carries the
	// session token plus the encoded transaction.
	var payload domain.SignTransactionPayload
	u := r.lastOutbound(t, &payload)
	require.True(t, strings.HasSuffix(u.Path, "/signTransaction"))
	require.Equal(t, r.wallet.Token, payload.Session)
	require.Equal(t, base58.Encode(unsignedTx), payload.Transaction)

	// The wallet answers with the signed transaction; the responder relays
	// it and resumes the callback exactly once.
	signedTx := []byte("signed-transaction-bytes")
	err = r.feed(t, r.wallet.SignTransactionRedirect(t, redirectBase, domain.SignTransactionResult{
		Transaction: base58.Encode(signedTx),
	}))
	require.NoError(t, err)

	require.Equal(t, [][]byte{signedTx}, r.relay.Submitted())
	require.Equal(t, 1, calls)
	require.Equal(t, "5ConfirmedSignature", gotSig)
}

func TestSignTransactionPeerError(t *testing.T) {
	r := newRig(t, true)

	var cbErr error
	var calls int
	require.NoError(t, r.resp.SignTransaction(context.Background(), []byte{1}, func(sig string, err error) {
		calls++
		cbErr = err
	}))

	err := r.feed(t, r.wallet.SignTransactionRedirect(t, redirectBase, domain.SignTransactionResult{
		Error: "User rejected the transaction",
	}))

	var perr *domain.PeerError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "User rejected the transaction", perr.Message)

	require.Equal(t, 1, calls)
	require.ErrorAs(t, cbErr, &perr)
	require.Empty(t, r.relay.Submitted(), "peer errors must not reach the ledger")
}

func TestSignTransactionTamperedResponse(t *testing.T) {
	r := newRig(t, true)

	var calls int
	require.NoError(t, r.resp.SignTransaction(context.Background(), []byte{1}, func(string, error) {
		calls++
	}))

	raw := r.wallet.SignTransactionRedirect(t, redirectBase, domain.SignTransactionResult{
		Transaction: base58.Encode([]byte("signed")),
	})
	ev, err := deeplink.Classify(raw)
	require.NoError(t, err)
	data, err := base58.Decode(ev.Params["data"])
	require.NoError(t, err)
	data[0] ^= 0x01
	ev.Params["data"] = base58.Encode(data)

	err = r.resp.HandleSignTransaction(context.Background(), ev.Params)
	require.ErrorIs(t, err, domain.ErrDecryption)
	require.Zero(t, calls, "an unreadable response must not resume the caller")
	require.Equal(t, domain.StateConnected, r.est.State(), "a failed sign leaves the session intact")
}

// Two sign requests in flight share the single pending slot: only the
// callback registered last fires on the next inbound response.
func TestOverlappingSignRequestsLastWriterWins(t *testing.T) {
	r := newRig(t, true)
	ctx := context.Background()

	var first, second int
	require.NoError(t, r.resp.SignTransaction(ctx, []byte("tx-1"), func(string, error) { first++ }))
	require.NoError(t, r.resp.SignTransaction(ctx, []byte("tx-2"), func(string, error) { second++ }))

	err := r.feed(t, r.wallet.SignTransactionRedirect(t, redirectBase, domain.SignTransactionResult{
		Transaction: base58.Encode([]byte("signed-tx-2")),
	}))
	require.NoError(t, err)

	require.Zero(t, first, "the replaced callback must never fire")
	require.Equal(t, 1, second)

	// A second response finds an empty slot; processing still succeeds.
	err = r.feed(t, r.wallet.SignTransactionRedirect(t, redirectBase, domain.SignTransactionResult{
		Transaction: base58.Encode([]byte("signed-tx-1")),
	}))
	require.NoError(t, err)
	require.Zero(t, first)
	require.Equal(t, 1, second)
}

func TestSignAllTransactionsIsAckOnly(t *testing.T) {
	r := newRig(t, true)
	txs := [][]byte{[]byte("tx-a"), []byte("tx-b")}

	require.NoError(t, r.resp.SignAllTransactions(context.Background(), txs))

	var payload domain.SignAllTransactionsPayload
	u := r.lastOutbound(t, &payload)
	require.True(t, strings.HasSuffix(u.Path, "/signAllTransactions"))
	require.Equal(t, r.wallet.Token, payload.Session)
	require.Equal(t, []string{base58.Encode(txs[0]), base58.Encode(txs[1])}, payload.Transactions)

	err := r.feed(t, r.wallet.SignAllTransactionsRedirect(t, redirectBase, domain.SignAllTransactionsResult{
		Transactions: payload.Transactions,
	}))
	require.NoError(t, err)
	require.Empty(t, r.relay.Submitted(), "batch responses are acknowledgements only")
}

func TestSignMessageRoundTrip(t *testing.T) {
	r := newRig(t, true)

	var gotSig string
	require.NoError(t, r.resp.SignMessage(context.Background(), []byte("hello wallet"), func(sig string, err error) {
		require.NoError(t, err)
		gotSig = sig
	}))

	var payload domain.SignMessagePayload
	u := r.lastOutbound(t, &payload)
	require.True(t, strings.HasSuffix(u.Path, "/signMessage"))
	require.Equal(t, base58.Encode([]byte("hello wallet")), payload.Message)

	err := r.feed(t, r.wallet.SignMessageRedirect(t, redirectBase, domain.SignMessageResult{
		Signature: "3MessageSignature",
	}))
	require.NoError(t, err)
	require.Equal(t, "3MessageSignature", gotSig)
}

func TestDisconnectNotifiesWalletAndClearsEagerly(t *testing.T) {
	r := newRig(t, true)

	require.NoError(t, r.resp.Disconnect(context.Background()))

	var payload domain.DisconnectPayload
	u := r.lastOutbound(t, &payload)
	require.True(t, strings.HasSuffix(u.Path, "/disconnect"))
	require.Equal(t, r.wallet.Token, payload.Session)

	// Local state is gone without waiting for the wallet's redirect.
	require.Equal(t, domain.StateIdle, r.est.State())
	_, ok := r.store.Current()
	require.False(t, ok)
	_, ok, err := r.states.LoadWalletState()
	require.NoError(t, err)
	require.False(t, ok, "persisted wallet state must be cleared")
}

func TestHandleDisconnectFromWallet(t *testing.T) {
	r := newRig(t, true)

	err := r.feed(t, r.wallet.DisconnectRedirect(t, redirectBase))
	require.NoError(t, err)
	require.Equal(t, domain.StateIdle, r.est.State())
}

func TestLogoutIsIdempotent(t *testing.T) {
	r := newRig(t, true)

	r.resp.Logout()
	r.resp.Logout()
	require.Equal(t, domain.StateIdle, r.est.State())
	_, ok := r.store.Current()
	require.False(t, ok)
}
