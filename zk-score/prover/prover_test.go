package prover

import (
	"sync"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/kysee/lemonzk/game"
	"github.com/kysee/lemonzk/zk-score/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var (
	compileOnce sync.Once
	ccs         constraint.ConstraintSystem
	pk          groth16.ProvingKey
	vk          groth16.VerifyingKey
)

func compiled(t *testing.T) {
	t.Helper()
	compileOnce.Do(func() {
		var err error
		ccs, pk, vk, err = types.CompileCircuit()
		require.NoError(t, err)
	})
}

func finished(seed uint64) game.GameState {
	e := game.NewEngine(game.NewSeededRand(seed))
	for !e.State().GameOver {
		e.BuyIngredients(game.Lemons, 20)
		e.BuyIngredients(game.Sugar, 10)
		e.BuyIngredients(game.Ice, 30)
		e.SetAdvertising(game.AdFlyers)
		e.SimulateDay()
	}
	return e.State()
}

func TestCreateScoreProof(t *testing.T) {
	compiled(t)
	w, err := NewWallet()
	require.NoError(t, err)

	state := finished(5)
	pd, err := w.Prove(state, ccs, pk, zerolog.Nop())
	require.NoError(t, err)

	signals, err := pd.Signals()
	require.NoError(t, err)
	require.Equal(t, uint64(*state.FinalScore), signals.FinalScore)
	require.Equal(t, uint64(game.StartingMoney), signals.StartingMoney)
	require.Equal(t, w.PlayerKey(), signals.PlayerKey)

	proof, err := pd.ReadProof()
	require.NoError(t, err)
	pubWtn, err := frontend.NewWitness(types.PublicAssignment(signals), ecc.BN254.ScalarField(), frontend.PublicOnly())
	require.NoError(t, err)
	require.NoError(t, groth16.Verify(proof, vk, pubWtn))
}

func TestCreateScoreProofGameNotOver(t *testing.T) {
	e := game.NewEngine(game.NewSeededRand(1))
	e.SimulateDay()

	_, err := CreateScoreProof([]byte{1}, e.State(), nil, nil, zerolog.Nop())
	require.ErrorIs(t, err, ErrGameNotOver)
}

func TestWalletFromKey(t *testing.T) {
	w, err := NewWallet()
	require.NoError(t, err)

	restored, err := WalletFromKey(w.PrivateKey())
	require.NoError(t, err)
	require.Equal(t, w.Address, restored.Address)
	require.Equal(t, w.PlayerKey(), restored.PlayerKey())

	_, err = WalletFromKey([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestSignClaim(t *testing.T) {
	w, err := NewWallet()
	require.NoError(t, err)

	stmt := types.Statement([]byte("vk"), types.PublicSignals{FinalScore: 1500, DaysPlayed: 7})
	sig, err := w.SignClaim(stmt)
	require.NoError(t, err)
	require.NoError(t, types.VerifyStatement(w.Address, stmt, sig))
}

func TestSealHistory(t *testing.T) {
	w, err := NewWallet()
	require.NoError(t, err)
	other, err := NewWallet()
	require.NoError(t, err)

	history := finished(9).SalesHistory
	sealed, err := w.SealHistory(history)
	require.NoError(t, err)

	opened, err := w.OpenHistory(sealed)
	require.NoError(t, err)
	require.Equal(t, history, opened)

	_, err = other.OpenHistory(sealed)
	require.Error(t, err)
}
