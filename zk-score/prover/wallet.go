package prover

import (
	"fmt"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	jubjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"github.com/kysee/lemonzk/game"
	"github.com/kysee/lemonzk/zk-score/crypto"
	"github.com/kysee/lemonzk/zk-score/types"
	"github.com/rs/zerolog"
)

// Wallet is a player identity. Proofs are bound to its PlayerKey and claims
// are signed with its EdDSA key.
type Wallet struct {
	Address    string
	privateKey *jubjub.PrivateKey
	playerKey  []byte
}

func NewWallet() (*Wallet, error) {
	prvk, err := crypto.NewKey()
	if err != nil {
		return nil, err
	}
	return newWallet(prvk), nil
}

// WalletFromKey restores a wallet from PrivateKey bytes.
func WalletFromKey(bz []byte) (*Wallet, error) {
	prvk := new(jubjub.PrivateKey)
	if _, err := prvk.SetBytes(bz); err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	return newWallet(prvk), nil
}

func newWallet(prvk *jubjub.PrivateKey) *Wallet {
	return &Wallet{
		Address:    types.Pub2Addr(&prvk.PublicKey),
		privateKey: prvk,
		playerKey:  types.PlayerKey(&prvk.PublicKey),
	}
}

func (w *Wallet) PublicKey() *jubjub.PublicKey {
	return &w.privateKey.PublicKey
}

func (w *Wallet) PrivateKey() []byte {
	return w.privateKey.Bytes()
}

func (w *Wallet) PlayerKey() []byte {
	return append([]byte(nil), w.playerKey...)
}

func (w *Wallet) Prove(
	state game.GameState,
	ccs constraint.ConstraintSystem,
	provingKey groth16.ProvingKey,
	logger zerolog.Logger,
) (*types.ProofData, error) {
	return CreateScoreProof(w.playerKey, state, ccs, provingKey, logger.With().Str("player", w.Address).Logger())
}

// SignClaim signs a verified statement so a leaderboard can tie it to this
// wallet's address.
func (w *Wallet) SignClaim(statement []byte) ([]byte, error) {
	return types.SignStatement(w.privateKey, statement)
}

// SealHistory encrypts the daily records to the wallet's own key.
func (w *Wallet) SealHistory(history []game.DailyRecord) ([]byte, error) {
	bz, err := game.EncodeHistory(history)
	if err != nil {
		return nil, err
	}
	return crypto.Seal(w.PublicKey(), bz)
}

func (w *Wallet) OpenHistory(sealed []byte) ([]game.DailyRecord, error) {
	bz, err := crypto.Open(w.privateKey, sealed)
	if err != nil {
		return nil, err
	}
	return game.DecodeHistory(bz)
}
