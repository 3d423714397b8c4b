package prover

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
	"github.com/kysee/lemonzk/game"
	"github.com/kysee/lemonzk/zk-score/types"
	"github.com/rs/zerolog"
)

var ErrGameNotOver = errors.New("game is not over")

// CreateScoreProof proves the final score of a finished game for playerKey.
func CreateScoreProof(
	playerKey []byte,
	state game.GameState,
	ccs constraint.ConstraintSystem,
	provingKey groth16.ProvingKey,
	logger zerolog.Logger,
) (*types.ProofData, error) {
	ci, ok := state.CircuitInputs()
	if !ok {
		return nil, ErrGameNotOver
	}

	assignment, signals, err := types.NewAssignment(playerKey, ci)
	if err != nil {
		return nil, err
	}

	wtn, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness: %w", err)
	}

	logger.Debug().
		Uint64("score", signals.FinalScore).
		Int("constraints", ccs.GetNbConstraints()).
		Msg("proving score")

	proof, err := groth16.Prove(
		ccs,
		provingKey,
		wtn,
		backend.WithSolverOptions(
			solver.WithLogger(logger),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("prove score: %w", err)
	}
	return types.NewProofData(proof, signals)
}
