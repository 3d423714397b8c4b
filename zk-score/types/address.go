package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	jubjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"github.com/kysee/lemonzk/utils"
	"github.com/kysee/lemonzk/zk-score/crypto"
)

const (
	addrPrefix = "lz"
	ver        = 0x01
)

var ErrBadSignature = errors.New("invalid statement signature")

func EncodeAddress(payload []byte) string {
	return addrPrefix + base58.CheckEncode(payload, ver)
}

func DecodeAddress(addr string) ([]byte, error) {
	if !strings.HasPrefix(addr, addrPrefix) {
		return nil, fmt.Errorf("wrong prefix: %q", addr)
	}
	bz, _ver, err := base58.CheckDecode(addr[len(addrPrefix):])
	if err != nil {
		return nil, err
	}
	if _ver != ver {
		return nil, fmt.Errorf("wrong version: expected(%d), got(%d)", ver, _ver)
	}
	return bz, nil
}

func Pub2Addr(pub *jubjub.PublicKey) string {
	return EncodeAddress(pub.Bytes())
}

func Addr2Pub(addr string) (*jubjub.PublicKey, error) {
	bz, err := DecodeAddress(addr)
	if err != nil {
		return nil, err
	}
	pub := crypto.NewPub()
	if _, err := pub.SetBytes(bz); err != nil {
		return nil, fmt.Errorf("address %s: %w", addr, err)
	}
	return pub, nil
}

// PlayerKey is the field element a proof is bound to: MiMC(X, Y) of the
// player's public key.
func PlayerKey(pub *jubjub.PublicKey) []byte {
	x, y := pub.A.X.Bytes(), pub.A.Y.Bytes()
	return utils.MiMCHash(x[:], y[:])
}

// SignStatement signs the statement reduced into the scalar field, which is
// what the MiMC-based eddsa hasher accepts.
func SignStatement(priv *jubjub.PrivateKey, statement []byte) ([]byte, error) {
	return priv.Sign(utils.FieldReduce(statement), utils.MiMCHasher())
}

func VerifyStatement(addr string, statement, sig []byte) error {
	pub, err := Addr2Pub(addr)
	if err != nil {
		return err
	}
	ok, err := pub.Verify(sig, utils.FieldReduce(statement), utils.MiMCHasher())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	if !ok {
		return ErrBadSignature
	}
	return nil
}
