// Command solidity exports the score verifier contract together with a sample
// proof for a seeded autoplayed game.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kysee/lemonzk/game"
	"github.com/kysee/lemonzk/zk-score/prover"
	"github.com/kysee/lemonzk/zk-score/types"
	"github.com/rs/zerolog"
)

func main() {
	var (
		outDir string
		seed   uint64
	)
	flag.StringVar(&outDir, "out", "contracts", "output directory")
	flag.Uint64Var(&seed, "seed", 1, "seed of the sample game")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(outDir, seed, logger); err != nil {
		logger.Fatal().Err(err).Msg("export verifier")
	}
}

func run(outDir string, seed uint64, logger zerolog.Logger) error {
	ccs, pk, vk, err := types.CompileCircuit()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	contract := filepath.Join(outDir, "ScoreVerifier.sol")
	if err := exportVerifier(vk, contract); err != nil {
		return err
	}
	logger.Info().Str("file", contract).Msg("verifier exported")

	wallet, err := prover.NewWallet()
	if err != nil {
		return err
	}
	state := sampleGame(seed)
	pd, err := wallet.Prove(state, ccs, pk, logger)
	if err != nil {
		return err
	}
	cd, err := solidityCalldata(pd)
	if err != nil {
		return err
	}

	bz, err := json.MarshalIndent(cd, "", "  ")
	if err != nil {
		return err
	}
	sample := filepath.Join(outDir, "sample_proof.json")
	if err := os.WriteFile(sample, bz, 0o644); err != nil {
		return err
	}
	logger.Info().
		Str("file", sample).
		Str("score", fmt.Sprintf("$%.2f", float64(*state.FinalScore)/10)).
		Msg("sample proof written")
	return nil
}

// sampleGame plays a fixed, always affordable routine.
func sampleGame(seed uint64) game.GameState {
	e := game.NewEngine(game.NewSeededRand(seed))
	for !e.State().GameOver {
		e.BuyIngredients(game.Lemons, 100)
		e.BuyIngredients(game.Sugar, 50)
		e.BuyIngredients(game.Ice, 150)
		e.SetLemonadePrice(3.0)
		e.SetAdvertising(game.AdFlyers)
		e.SimulateDay()
	}
	return e.State()
}
