package types

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/kysee/lemonzk/game"
	"github.com/kysee/lemonzk/utils"
)

var ErrBadHistory = errors.New("history does not describe a finished game")

// day is one circuit row, already checked to be non-negative.
type day struct {
	money, spend, sales, price uint64
	lemons, sugar, ice         uint64
	weather, advertising       uint64
	recipe                     [3]uint64
}

func daysOf(ci game.CircuitInputs) ([]day, error) {
	if ci.Days() != Days {
		return nil, fmt.Errorf("%w: %d days played", ErrBadHistory, ci.Days())
	}
	if ci.StartingMoney < 0 || ci.FinalScore < 0 {
		return nil, fmt.Errorf("%w: negative balance", ErrBadHistory)
	}
	if len(ci.DailyRecipe) != Days || len(ci.DailyPrice) != Days ||
		len(ci.DailyWeather) != Days || len(ci.DailyAdvertising) != Days {
		return nil, fmt.Errorf("%w: per-day inputs differ in length", ErrBadHistory)
	}
	for i := 0; i < Days; i++ {
		// checked before the uint8 conversion in Records
		if w := ci.DailyWeather[i]; w < int(game.Rainy) || w > int(game.Hot) {
			return nil, fmt.Errorf("%w: day %d has weather %d", ErrBadHistory, i+1, w)
		}
		if a := ci.DailyAdvertising[i]; a < int(game.AdNone) || a > int(game.AdRadio) {
			return nil, fmt.Errorf("%w: day %d has advertising %d", ErrBadHistory, i+1, a)
		}
	}

	out := make([]day, Days)
	for i, r := range ci.Records() {
		if r.Recipe.LemonsPerCup <= 0 {
			return nil, fmt.Errorf("%w: day %d has no recipe", ErrBadHistory, i+1)
		}
		if _, ok := game.AdvertisingFor(r.Advertising); !ok || !r.Weather.Valid() {
			return nil, fmt.Errorf("%w: day %d has unknown weather or advertising", ErrBadHistory, i+1)
		}
		vals := []int{
			r.Money, r.IngredientSpend, r.Sales, r.Price,
			r.LemonsUsed, r.SugarUsed, r.IceUsed,
			r.Recipe.SugarPerCup, r.Recipe.IcePerCup,
		}
		for _, v := range vals {
			if v < 0 {
				return nil, fmt.Errorf("%w: day %d has a negative entry", ErrBadHistory, i+1)
			}
		}
		out[i] = day{
			money:       uint64(r.Money),
			spend:       uint64(r.IngredientSpend),
			sales:       uint64(r.Sales),
			price:       uint64(r.Price),
			lemons:      uint64(r.LemonsUsed),
			sugar:       uint64(r.SugarUsed),
			ice:         uint64(r.IceUsed),
			weather:     uint64(r.Weather),
			advertising: uint64(r.Advertising),
			recipe: [3]uint64{
				uint64(r.Recipe.LemonsPerCup),
				uint64(r.Recipe.SugarPerCup),
				uint64(r.Recipe.IcePerCup),
			},
		}
	}
	return out, nil
}

// commitment mirrors the MiMC absorption order of ScoreCircuit.Define.
func commitment(playerKey []byte, startingMoney uint64, days []day) []byte {
	ins := [][]byte{utils.FieldReduce(playerKey), utils.FieldBytes(startingMoney)}
	for _, d := range days {
		ins = append(ins,
			utils.FieldBytes(d.money),
			utils.FieldBytes(d.spend),
			utils.FieldBytes(d.sales),
			utils.FieldBytes(d.price),
			utils.FieldBytes(d.weather),
			utils.FieldBytes(d.advertising),
		)
	}
	return utils.MiMCHash(ins...)
}

// HistoryCommitment binds a player key to a finished game's daily rows.
func HistoryCommitment(playerKey []byte, ci game.CircuitInputs) ([]byte, error) {
	days, err := daysOf(ci)
	if err != nil {
		return nil, err
	}
	return commitment(playerKey, uint64(ci.StartingMoney), days), nil
}

// NewAssignment builds the full witness for a finished game together with the
// public signals it exposes.
func NewAssignment(playerKey []byte, ci game.CircuitInputs) (*ScoreCircuit, PublicSignals, error) {
	days, err := daysOf(ci)
	if err != nil {
		return nil, PublicSignals{}, err
	}
	key := utils.FieldReduce(playerKey)

	signals := PublicSignals{
		StartingMoney:     uint64(ci.StartingMoney),
		FinalScore:        uint64(ci.FinalScore),
		DaysPlayed:        Days,
		PlayerKey:         key,
		HistoryCommitment: commitment(key, uint64(ci.StartingMoney), days),
	}

	assignment := PublicAssignment(signals)
	for i, d := range days {
		assignment.Money[i] = d.money
		assignment.Spend[i] = d.spend
		assignment.Sales[i] = d.sales
		assignment.Price[i] = d.price
		assignment.LemonsUsed[i] = d.lemons
		assignment.SugarUsed[i] = d.sugar
		assignment.IceUsed[i] = d.ice
		assignment.Weather[i] = d.weather
		assignment.Advertising[i] = d.advertising
		assignment.Recipe[i] = [3]frontend.Variable{d.recipe[0], d.recipe[1], d.recipe[2]}
	}
	return assignment, signals, nil
}

// PublicAssignment fills only the public half of the circuit, which is all a
// verifier needs to rebuild the public witness.
func PublicAssignment(signals PublicSignals) *ScoreCircuit {
	return &ScoreCircuit{
		StartingMoney:     signals.StartingMoney,
		FinalScore:        signals.FinalScore,
		DaysPlayed:        signals.DaysPlayed,
		PlayerKey:         new(big.Int).SetBytes(signals.PlayerKey),
		HistoryCommitment: new(big.Int).SetBytes(signals.HistoryCommitment),
	}
}
