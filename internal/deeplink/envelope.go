package deeplink

import (
	"fmt"

	"github.com/mr-tron/base58"

	"walletbridge/internal/domain"
)

// ParseEnvelope rebuilds an encrypted envelope from the nonce and data
// parameters of an inbound event. Absent parameters are a protocol violation;
// undecodable ones are indistinguishable from tampering.
func ParseEnvelope(params map[string]string) (domain.Envelope, error) {
	nonceRaw, ok := params["nonce"]
	if !ok {
		return domain.Envelope{}, fmt.Errorf("%w: nonce", domain.ErrMissingParameter)
	}
	dataRaw, ok := params["data"]
	if !ok {
		return domain.Envelope{}, fmt.Errorf("%w: data", domain.ErrMissingParameter)
	}

	nonce, err := base58.Decode(nonceRaw)
	if err != nil || len(nonce) != domain.NonceSize {
		return domain.Envelope{}, fmt.Errorf("%w: bad nonce", domain.ErrDecryption)
	}
	data, err := base58.Decode(dataRaw)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("%w: bad ciphertext", domain.ErrDecryption)
	}

	var env domain.Envelope
	copy(env.Nonce[:], nonce)
	env.Ciphertext = data
	return env, nil
}
