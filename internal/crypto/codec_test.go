package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"walletbridge/internal/crypto"
	"walletbridge/internal/domain"
)

func makeSecret(t *testing.T) domain.SharedSecret {
	t.Helper()
	app, err := crypto.NewKeyPair()
	if err != nil {
		t.Fatalf("NewKeyPair: %v", err)
	}
	wallet, err := crypto.NewKeyPair()
	if err != nil {
		t.Fatalf("NewKeyPair: %v", err)
	}
	return app.SharedSecret(wallet.Public())
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	secret := makeSecret(t)

	in := domain.ConnectPayload{PublicKey: "Wallet1abc", Session: "tok-1"}
	env, err := crypto.Encrypt(in, secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	var out domain.ConnectPayload
	if err := crypto.Decrypt(env, secret, &out); err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	secret := makeSecret(t)

	env, err := crypto.Encrypt(domain.DisconnectPayload{Session: "tok-1"}, secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Flip one bit in each ciphertext byte position in turn; every variant
	// must fail authentication, never return corrupted data.
	for i := range env.Ciphertext {
		tampered := env
		tampered.Ciphertext = append([]byte(nil), env.Ciphertext...)
		tampered.Ciphertext[i] ^= 0x01

		var out domain.DisconnectPayload
		if err := crypto.Decrypt(tampered, secret, &out); !errors.Is(err, domain.ErrDecryption) {
			t.Fatalf("byte %d: want ErrDecryption, got %v", i, err)
		}
	}
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	env, err := crypto.Encrypt(domain.DisconnectPayload{Session: "tok-1"}, makeSecret(t))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	var out domain.DisconnectPayload
	if err := crypto.Decrypt(env, makeSecret(t), &out); !errors.Is(err, domain.ErrDecryption) {
		t.Fatalf("want ErrDecryption under wrong key, got %v", err)
	}
}

func TestDecryptRejectsNonJSONPlaintext(t *testing.T) {
	secret := makeSecret(t)

	// A raw string marshals to valid JSON, but not to the expected shape of
	// a struct target.
	env, err := crypto.Encrypt("not an object", secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	var out domain.ConnectPayload
	if err := crypto.Decrypt(env, secret, &out); !errors.Is(err, domain.ErrDecryption) {
		t.Fatalf("want ErrDecryption for mismatched payload shape, got %v", err)
	}
}

func TestEncryptNonceFreshness(t *testing.T) {
	secret := makeSecret(t)

	seen := make(map[[domain.NonceSize]byte]bool)
	for i := 0; i < 64; i++ {
		env, err := crypto.Encrypt(domain.DisconnectPayload{Session: "tok-1"}, secret)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		if seen[env.Nonce] {
			t.Fatal("nonce repeated under the same secret")
		}
		seen[env.Nonce] = true
	}
}

func TestSharedSecretIsDeterministicAndSymmetric(t *testing.T) {
	app, err := crypto.NewKeyPair()
	if err != nil {
		t.Fatalf("NewKeyPair: %v", err)
	}
	wallet, err := crypto.NewKeyPair()
	if err != nil {
		t.Fatalf("NewKeyPair: %v", err)
	}

	first := app.SharedSecret(wallet.Public())
	second := app.SharedSecret(wallet.Public())
	if first != second {
		t.Fatal("repeated derivation produced different secrets")
	}

	// The wallet derives the same key from its side of the exchange.
	theirs := wallet.SharedSecret(app.Public())
	if !bytes.Equal(first[:], theirs[:]) {
		t.Fatal("peer derivation does not agree")
	}
}
