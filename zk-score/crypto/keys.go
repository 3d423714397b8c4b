package crypto

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/big"

	tedwards "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	jubjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"golang.org/x/crypto/blake2s"
)

const (
	KeySize   = 32
	NonceSize = 12
)

var kdfPersonalization = []byte("LemonZK_SealSeed")

func NewKey() (*jubjub.PrivateKey, error) {
	return jubjub.GenerateKey(crand.Reader)
}

func NewPub() *jubjub.PublicKey {
	return new(jubjub.PublicKey)
}

// SharedSecret returns blake2s(X(priv * otherPub)).
func SharedSecret(priv *jubjub.PrivateKey, otherPub *jubjub.PublicKey) ([]byte, error) {
	if !otherPub.A.IsOnCurve() {
		return nil, errors.New("public key is not on curve")
	}

	// private key layout: pub(32) | scalar(32) | randSrc(32)
	raw := priv.Bytes()
	scalar := new(big.Int).SetBytes(raw[32:64])

	var point tedwards.PointAffine
	point.ScalarMultiplication(&otherPub.A, scalar)
	if !point.IsOnCurve() {
		return nil, errors.New("shared point is not on curve")
	}

	x := point.X.Bytes()
	sum := blake2s.Sum256(x[:])
	return sum[:], nil
}

// DeriveKey expands a shared secret into an AEAD key and nonce.
func DeriveKey(secret []byte) (key, nonce []byte, err error) {
	if len(secret) != 32 {
		return nil, nil, fmt.Errorf("shared secret must be 32 bytes, got %d", len(secret))
	}

	var stream []byte
	for counter := byte(1); len(stream) < KeySize+NonceSize; counter++ {
		h, err := blake2s.New256(nil)
		if err != nil {
			return nil, nil, err
		}
		h.Write(kdfPersonalization)
		h.Write(secret)
		h.Write([]byte{counter})
		stream = h.Sum(stream)
	}
	return stream[:KeySize], stream[KeySize : KeySize+NonceSize], nil
}
