package deeplink

import (
	"github.com/mr-tron/base58"

	"walletbridge/internal/domain"
)

// Outbound operation names, relative to the provider base.
const (
	opConnect             = "connect"
	opDisconnect          = "disconnect"
	opSignTransaction     = "signTransaction"
	opSignAllTransactions = "signAllTransactions"
	opSignMessage         = "signMessage"
)

// Builder assembles outbound request URLs in the wallet wire format. All
// binary parameters travel base58-encoded.
type Builder struct {
	provider domain.Provider
	cluster  string // target network identifier, e.g. mainnet-beta, devnet
	appURL   string // identifies the requesting app to the wallet
	redirect string // base the wallet redirects back to, without the /on<Op> suffix
}

// NewBuilder returns a builder for one provider and one app identity.
func NewBuilder(provider domain.Provider, cluster, appURL, redirect string) *Builder {
	return &Builder{provider: provider, cluster: cluster, appURL: appURL, redirect: redirect}
}

// Provider reports which wallet vendor the builder targets.
func (b *Builder) Provider() string { return b.provider.Name() }

// Connect builds the handshake URL embedding the app's encryption public key.
func (b *Builder) Connect(dappPub domain.X25519Public) (string, error) {
	return b.provider.RequestURL(opConnect, map[string]string{
		"dapp_encryption_public_key": dappPub.Base58(),
		"cluster":                    b.cluster,
		"app_url":                    b.appURL,
		"redirect_link":              b.redirect + "/onConnect",
	})
}

// Disconnect builds the session teardown URL.
func (b *Builder) Disconnect(dappPub domain.X25519Public, env domain.Envelope) (string, error) {
	return b.encrypted(opDisconnect, "onDisconnect", dappPub, env)
}

// SignTransaction builds a single-transaction signing request URL.
func (b *Builder) SignTransaction(dappPub domain.X25519Public, env domain.Envelope) (string, error) {
	return b.encrypted(opSignTransaction, "onSignTransaction", dappPub, env)
}

// SignAllTransactions builds a batch signing request URL.
func (b *Builder) SignAllTransactions(dappPub domain.X25519Public, env domain.Envelope) (string, error) {
	return b.encrypted(opSignAllTransactions, "onSignAllTransactions", dappPub, env)
}

// SignMessage builds a message signing request URL.
func (b *Builder) SignMessage(dappPub domain.X25519Public, env domain.Envelope) (string, error) {
	return b.encrypted(opSignMessage, "onSignMessage", dappPub, env)
}

func (b *Builder) encrypted(op, callback string, dappPub domain.X25519Public, env domain.Envelope) (string, error) {
	return b.provider.RequestURL(op, map[string]string{
		"dapp_encryption_public_key": dappPub.Base58(),
		"nonce":                      base58.Encode(env.Nonce[:]),
		"redirect_link":              b.redirect + "/" + callback,
		"payload":                    base58.Encode(env.Ciphertext),
	})
}
