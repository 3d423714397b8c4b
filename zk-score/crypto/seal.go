package crypto

import (
	"errors"
	"fmt"

	jubjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"golang.org/x/crypto/chacha20poly1305"
)

const pubKeySize = 32

var ErrSealedTooShort = errors.New("sealed box too short")

// Seal encrypts plaintext to recipient with a fresh ephemeral key. The output
// is the ephemeral public key followed by the ChaCha20-Poly1305 ciphertext;
// the ephemeral key is also the associated data.
func Seal(recipient *jubjub.PublicKey, plaintext []byte) ([]byte, error) {
	eph, err := NewKey()
	if err != nil {
		return nil, err
	}
	secret, err := SharedSecret(eph, recipient)
	if err != nil {
		return nil, err
	}
	key, nonce, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	epk := eph.PublicKey.Bytes()
	out := make([]byte, 0, len(epk)+len(plaintext)+aead.Overhead())
	out = append(out, epk...)
	return aead.Seal(out, nonce, plaintext, epk), nil
}

func Open(priv *jubjub.PrivateKey, sealed []byte) ([]byte, error) {
	if len(sealed) < pubKeySize+chacha20poly1305.Overhead {
		return nil, ErrSealedTooShort
	}
	epkBytes, ciphertext := sealed[:pubKeySize], sealed[pubKeySize:]

	epk := NewPub()
	if _, err := epk.SetBytes(epkBytes); err != nil {
		return nil, fmt.Errorf("ephemeral key: %w", err)
	}
	secret, err := SharedSecret(priv, epk)
	if err != nil {
		return nil, err
	}
	key, nonce, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, epkBytes)
	if err != nil {
		return nil, fmt.Errorf("open sealed box: %w", err)
	}
	return plaintext, nil
}
