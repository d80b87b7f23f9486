package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/nacl/box"

	"walletbridge/internal/domain"
)

// KeyPair is the app's ephemeral X25519 key pair. One pair is generated per
// app session and reused for every handshake attempt in that session; a fresh
// pair would invalidate any previously negotiated shared secret. The pair is
// never serialized and dies with the process.
type KeyPair struct {
	pub domain.X25519Public
	sec domain.X25519Private
}

// NewKeyPair generates a key pair from crypto/rand.
func NewKeyPair() (*KeyPair, error) {
	pub, sec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &KeyPair{pub: domain.X25519Public(*pub), sec: domain.X25519Private(*sec)}, nil
}

// Public returns the public key embedded in outbound connect URLs.
func (k *KeyPair) Public() domain.X25519Public { return k.pub }

// Secret returns the private scalar. Callers must not retain it.
func (k *KeyPair) Secret() domain.X25519Private { return k.sec }

// SharedSecret derives the session key from our private key and the wallet's
// public key using the NaCl box construction (X25519 + HSalsa20). The
// derivation is deterministic: the same key pair and peer key always yield
// the same secret.
func (k *KeyPair) SharedSecret(peer domain.X25519Public) domain.SharedSecret {
	var shared [32]byte
	pub := [32]byte(peer)
	sec := [32]byte(k.sec)
	box.Precompute(&shared, &pub, &sec)
	return domain.SharedSecret(shared)
}
