package verifier

import (
	"context"
	"strings"
	"testing"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/kysee/lemonzk/game"
	"github.com/kysee/lemonzk/zk-score/prover"
	"github.com/kysee/lemonzk/zk-score/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const explorer = "https://zkverify-testnet.subscan.io/extrinsic/"

var (
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
)

func init() {
	var err error
	ccs, pk, vk, err = types.CompileCircuit()
	if err != nil {
		panic(err)
	}
}

func playGame(seed uint64) game.GameState {
	e := game.NewEngine(game.NewSeededRand(seed))
	for !e.State().GameOver {
		e.BuyIngredients(game.Lemons, 30)
		e.BuyIngredients(game.Sugar, 15)
		e.BuyIngredients(game.Ice, 45)
		e.SetLemonadePrice(2.5)
		e.SimulateDay()
	}
	return e.State()
}

func proveGame(t *testing.T, seed uint64) *types.ProofData {
	t.Helper()
	w, err := prover.NewWallet()
	require.NoError(t, err)
	pd, err := w.Prove(playGame(seed), ccs, pk, zerolog.Nop())
	require.NoError(t, err)
	return pd
}

func newLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(explorer, zerolog.Nop())
	_, err := l.RegisterVerificationKey(vk)
	require.NoError(t, err)
	return l
}

func TestSubmit(t *testing.T) {
	l := newLedger(t)
	pd := proveGame(t, 1)

	r, err := l.Submit(context.Background(), pd)
	require.NoError(t, err)
	require.Equal(t, uint64(1), r.Block)
	require.Equal(t, uint64(0), r.LeafIndex)
	require.True(t, strings.HasPrefix(r.URL, explorer+"0x"))
	require.Equal(t, explorer+r.TxHash, r.URL)

	signals, err := pd.Signals()
	require.NoError(t, err)
	require.Equal(t, signals, r.Signals)

	got, err := l.Receipt(r.Statement)
	require.NoError(t, err)
	require.Equal(t, r.TxHash, got.TxHash)

	_, err = l.Submit(context.Background(), pd)
	require.ErrorIs(t, err, ErrDuplicateStatement)
}

func TestSubmitRejectsForgedSignals(t *testing.T) {
	l := newLedger(t)
	pd := proveGame(t, 2)

	signals, err := pd.Signals()
	require.NoError(t, err)
	signals.FinalScore += 1000
	forged := &types.ProofData{Proof: pd.Proof, PublicInputs: signals.Encode()}

	_, err = l.Submit(context.Background(), forged)
	require.ErrorIs(t, err, ErrInvalidProof)

	// the honest proof still goes through
	_, err = l.Submit(context.Background(), pd)
	require.NoError(t, err)
}

func TestSubmitErrors(t *testing.T) {
	pd := proveGame(t, 3)

	_, err := NewLedger(explorer, zerolog.Nop()).Submit(context.Background(), pd)
	require.ErrorIs(t, err, ErrNoVerificationKey)

	l := newLedger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Submit(ctx, pd)
	require.ErrorIs(t, err, context.Canceled)

	_, err = l.Submit(context.Background(), &types.ProofData{Proof: "0x00", PublicInputs: pd.PublicInputs})
	require.Error(t, err)

	_, err = l.Submit(context.Background(), &types.ProofData{Proof: pd.Proof, PublicInputs: pd.PublicInputs[:2]})
	require.ErrorIs(t, err, types.ErrPublicSignals)

	_, err = l.Receipt([]byte("nope"))
	require.ErrorIs(t, err, ErrUnknownStatement)
	_, err = l.StatementPath([]byte("nope"))
	require.ErrorIs(t, err, ErrUnknownStatement)
}

func TestStatementPath(t *testing.T) {
	l := newLedger(t)

	var receipts []*Receipt
	for seed := uint64(10); seed < 13; seed++ {
		r, err := l.Submit(context.Background(), proveGame(t, seed))
		require.NoError(t, err)
		receipts = append(receipts, r)
	}

	last := receipts[len(receipts)-1]
	for i, r := range receipts {
		path, err := l.StatementPath(r.Statement)
		require.NoError(t, err)
		require.Equal(t, uint64(i), path.Index)
		require.Equal(t, uint64(len(receipts)), path.NumLeaves)
		require.Equal(t, last.AggregationRoot, path.Root)
		require.True(t, VerifyStatementPath(r.Statement, path))

		require.False(t, VerifyStatementPath(receipts[(i+1)%len(receipts)].Statement, path))
	}
	require.False(t, VerifyStatementPath(last.Statement, nil))
}
