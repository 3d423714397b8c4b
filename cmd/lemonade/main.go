// Command lemonade plays a week at the stand, proves the final score and
// records it on the leaderboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kysee/lemonzk/config"
	"github.com/kysee/lemonzk/game"
	"github.com/kysee/lemonzk/leaderboard"
	"github.com/kysee/lemonzk/session"
	"github.com/kysee/lemonzk/zk-score/prover"
	"github.com/kysee/lemonzk/zk-score/types"
	"github.com/kysee/lemonzk/zk-score/verifier"
	"github.com/rs/zerolog"
)

func main() {
	var (
		rollover bool
		name     string
	)
	flag.BoolVar(&rollover, "rollover", false, "close the day: freeze the top 10 as daily winners and reset the leaderboard")
	flag.StringVar(&name, "name", "", "display name recorded for the player")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	lvl, _ := cfg.Level()
	logger := zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := leaderboard.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("db", cfg.DBPath).Msg("open leaderboard")
	}
	defer store.Close()

	board := leaderboard.NewBoard(store,
		leaderboard.WithLimit(cfg.LeaderboardLimit),
		leaderboard.WithLogger(logger),
	)

	if rollover {
		if err := closeDay(ctx, board); err != nil {
			logger.Error().Err(err).Msg("rollover")
			os.Exit(1)
		}
		return
	}

	if err := play(ctx, cfg, board, name, logger); err != nil {
		logger.Error().Err(err).Msg("play")
		os.Exit(1)
	}
}

func play(ctx context.Context, cfg config.Config, board *leaderboard.Board, name string, logger zerolog.Logger) error {
	wallet, err := openWallet(cfg)
	if err != nil {
		return err
	}
	logger.Info().Str("address", wallet.Address).Msg("player")

	rnd, seed, err := cfg.Rand()
	if err != nil {
		return err
	}
	logger.Info().Uint64("seed", seed).Msg("game seed")
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	sess := session.New(game.NewEngine(rnd, cfg.EngineOptions(logger)...))
	unsubscribe := sess.Subscribe(func(snap session.Snapshot) {
		if snap.ProofURL != "" {
			logger.Debug().Str("proof", snap.ProofURL).Bool("submitted", snap.Submitted).Msg("session")
		}
	})
	defer unsubscribe()

	for !sess.Snapshot().State.GameOver {
		sess.Do(func(e *game.Engine) { playDay(e, policy) })
	}
	state := sess.Snapshot().State
	sum := state.Summary()
	fmt.Printf("final score $%.2f (won=%v), %d cups sold, $%.2f revenue\n",
		float64(*state.FinalScore)/10, state.Won, sum.TotalCups, float64(sum.TotalRevenue)/10)

	logger.Info().Msg("compiling score circuit")
	ccs, pk, vk, err := types.CompileCircuit()
	if err != nil {
		return err
	}

	ledger := verifier.NewLedger(cfg.ExplorerURL, logger)
	if _, err := ledger.RegisterVerificationKey(vk); err != nil {
		return err
	}

	pd, err := wallet.Prove(state, ccs, pk, logger)
	if err != nil {
		return err
	}
	receipt, err := ledger.Submit(ctx, pd)
	if err != nil {
		return err
	}
	sess.SetProofURL(receipt.URL)

	sig, err := wallet.SignClaim(receipt.Statement)
	if err != nil {
		return err
	}
	if name != "" {
		if err := board.SetName(ctx, wallet.Address, name); err != nil {
			return err
		}
	}
	entry, err := board.Claim(ctx, ledger, wallet.Address, receipt.Statement, sig)
	if err != nil {
		return err
	}
	sess.MarkSubmitted()

	fmt.Printf("proof %s\nrank #%d\n", receipt.URL, entry.Rank)
	return printLeaderboard(ctx, board)
}

func openWallet(cfg config.Config) (*prover.Wallet, error) {
	key, err := cfg.PlayerKeyBytes()
	if err != nil {
		return nil, err
	}
	if key == nil {
		return prover.NewWallet()
	}
	return prover.WalletFromKey(key)
}

func printLeaderboard(ctx context.Context, board *leaderboard.Board) error {
	entries, err := board.Leaderboard(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%3d  %-48s  $%.2f\n", e.Rank, e.Address, float64(e.Score)/10)
	}
	return nil
}

func closeDay(ctx context.Context, board *leaderboard.Board) error {
	if _, err := board.CloseDay(ctx); err != nil {
		return err
	}
	winners, err := board.DailyWinners(ctx)
	if err != nil {
		return err
	}
	for _, w := range winners {
		fmt.Printf("%s  %2d  %-48s  $%.2f\n", w.Day.Format("2006-01-02"), w.Rank, w.Name, float64(w.Score)/10)
	}
	return nil
}
