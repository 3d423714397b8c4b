package types

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/kysee/lemonzk/game"
	"github.com/kysee/lemonzk/utils"
	"github.com/stretchr/testify/require"
)

func finishedGame(t *testing.T, seed uint64) game.CircuitInputs {
	t.Helper()
	e := game.NewEngine(game.NewSeededRand(seed))
	for day := 0; !e.State().GameOver; day++ {
		e.BuyIngredients(game.Lemons, 40)
		e.BuyIngredients(game.Sugar, 20)
		e.BuyIngredients(game.Ice, 60)
		e.SetLemonadePrice(1.5 + float64(day%3)/2)
		e.SetAdvertising(game.AdType(day % 4))
		e.SimulateDay()
	}
	ci, ok := e.State().CircuitInputs()
	require.True(t, ok)
	return ci
}

func testPlayerKey() []byte {
	return utils.MiMCHash(utils.FieldBytes(42))
}

func TestScoreCircuitSolved(t *testing.T) {
	for _, seed := range []uint64{1, 7, 99} {
		ci := finishedGame(t, seed)
		assignment, signals, err := NewAssignment(testPlayerKey(), ci)
		require.NoError(t, err)
		require.Equal(t, uint64(ci.FinalScore), signals.FinalScore)
		require.Equal(t, uint64(Days), signals.DaysPlayed)

		var cc ScoreCircuit
		require.NoError(t, test.IsSolved(&cc, assignment, ecc.BN254.ScalarField()))
	}
}

func TestScoreCircuitRejectsForgedScore(t *testing.T) {
	ci := finishedGame(t, 3)
	var cc ScoreCircuit

	assignment, _, err := NewAssignment(testPlayerKey(), ci)
	require.NoError(t, err)
	assignment.FinalScore = ci.FinalScore + 100
	require.Error(t, test.IsSolved(&cc, assignment, ecc.BN254.ScalarField()))

	// a richer last day breaks the money chain
	assignment, _, err = NewAssignment(testPlayerKey(), ci)
	require.NoError(t, err)
	assignment.Money[Days-1] = ci.FinalScore + 100
	assignment.FinalScore = ci.FinalScore + 100
	require.Error(t, test.IsSolved(&cc, assignment, ecc.BN254.ScalarField()))

	assignment, _, err = NewAssignment(testPlayerKey(), ci)
	require.NoError(t, err)
	assignment.PlayerKey = 7
	require.Error(t, test.IsSolved(&cc, assignment, ecc.BN254.ScalarField()))

	assignment, _, err = NewAssignment(testPlayerKey(), ci)
	require.NoError(t, err)
	assignment.Recipe[2] = [3]frontend.Variable{1, 1, 1}
	require.Error(t, test.IsSolved(&cc, assignment, ecc.BN254.ScalarField()))
}

func TestScoreCircuitRejectsPriceOutOfRange(t *testing.T) {
	ci := finishedGame(t, 5)
	var cc ScoreCircuit

	assignment, _, err := NewAssignment(testPlayerKey(), ci)
	require.NoError(t, err)
	assignment.Price[0] = game.MaxPrice + 1
	require.Error(t, test.IsSolved(&cc, assignment, ecc.BN254.ScalarField()))
}

func TestNewAssignmentRejectsUnfinishedGame(t *testing.T) {
	ci := finishedGame(t, 2)
	short := game.NewCircuitInputs(ci.Records()[:3], ci.StartingMoney, ci.FinalScore)
	_, _, err := NewAssignment(testPlayerKey(), short)
	require.ErrorIs(t, err, ErrBadHistory)

	_, err = HistoryCommitment(testPlayerKey(), short)
	require.ErrorIs(t, err, ErrBadHistory)

	ragged := finishedGame(t, 2)
	ragged.DailyRecipe = ragged.DailyRecipe[:3]
	require.NotPanics(t, func() {
		_, _, err = NewAssignment(testPlayerKey(), ragged)
	})
	require.ErrorIs(t, err, ErrBadHistory)

	for _, bad := range []int{-1, 4, 257} {
		weather := finishedGame(t, 2)
		weather.DailyWeather[0] = bad
		_, _, err = NewAssignment(testPlayerKey(), weather)
		require.ErrorIs(t, err, ErrBadHistory, "weather %d", bad)

		ad := finishedGame(t, 2)
		ad.DailyAdvertising[4] = bad
		_, err = HistoryCommitment(testPlayerKey(), ad)
		require.ErrorIs(t, err, ErrBadHistory, "advertising %d", bad)
	}
}

func TestHistoryCommitment(t *testing.T) {
	ci := finishedGame(t, 11)
	a, err := HistoryCommitment(testPlayerKey(), ci)
	require.NoError(t, err)
	b, err := HistoryCommitment(utils.MiMCHash(utils.FieldBytes(43)), ci)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	_, signals, err := NewAssignment(testPlayerKey(), ci)
	require.NoError(t, err)
	require.Equal(t, a, signals.HistoryCommitment)
}
