package crypto

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"

	"walletbridge/internal/domain"
)

// Encrypt serializes payload to JSON and seals it with XSalsa20-Poly1305
// under secret and a fresh random 24-byte nonce. Nonce reuse under the same
// secret breaks confidentiality, so the nonce is drawn from crypto/rand on
// every call.
func Encrypt(payload any, secret domain.SharedSecret) (domain.Envelope, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("encoding payload: %w", err)
	}
	var env domain.Envelope
	if _, err := rand.Read(env.Nonce[:]); err != nil {
		return domain.Envelope{}, err
	}
	key := [32]byte(secret)
	env.Ciphertext = secretbox.Seal(nil, plaintext, &env.Nonce, &key)
	return env, nil
}

// Decrypt opens env under secret and unmarshals the plaintext into out.
// Authentication failure and malformed plaintext both report ErrDecryption:
// either way the payload cannot be trusted.
func Decrypt(env domain.Envelope, secret domain.SharedSecret, out any) error {
	key := [32]byte(secret)
	plaintext, ok := secretbox.Open(nil, env.Ciphertext, &env.Nonce, &key)
	if !ok {
		return domain.ErrDecryption
	}
	if err := json.Unmarshal(plaintext, out); err != nil {
		return fmt.Errorf("%w: payload is not valid JSON", domain.ErrDecryption)
	}
	return nil
}
