package types

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	std_mimc "github.com/consensys/gnark/std/hash/mimc"
	"github.com/kysee/lemonzk/game"
)

const (
	Days = game.MaxDays

	// balances and counters must fit in 32 bits; this also rules out
	// negative values wrapping around the field
	moneyBits = 32
	// 60-5 fits in 6 bits
	priceBits = 6
)

// ScoreCircuit proves that a final score is the result of a full game that
// followed the stand's bookkeeping rules, without revealing the daily choices.
type ScoreCircuit struct {
	StartingMoney     frontend.Variable `gnark:",public"`
	FinalScore        frontend.Variable `gnark:",public"`
	DaysPlayed        frontend.Variable `gnark:",public"`
	PlayerKey         frontend.Variable `gnark:",public"`
	HistoryCommitment frontend.Variable `gnark:",public"`

	Money       [Days]frontend.Variable
	Spend       [Days]frontend.Variable
	Sales       [Days]frontend.Variable
	Price       [Days]frontend.Variable
	LemonsUsed  [Days]frontend.Variable
	SugarUsed   [Days]frontend.Variable
	IceUsed     [Days]frontend.Variable
	Recipe      [Days][3]frontend.Variable
	Weather     [Days]frontend.Variable
	Advertising [Days]frontend.Variable
}

func (cc *ScoreCircuit) Define(api frontend.API) error {
	hasher, err := std_mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	api.AssertIsEqual(cc.DaysPlayed, Days)

	hasher.Write(cc.PlayerKey, cc.StartingMoney)

	balance := frontend.Variable(cc.StartingMoney)
	for i := 0; i < Days; i++ {
		cc.verifyRecipe(api, i)
		cc.verifyRanges(api, i)

		adCost := advertisingCost(api, cc.Advertising[i])

		// purchases and advertising are paid before the stand opens
		opening := api.Sub(balance, cc.Spend[i], adCost)
		_ = api.ToBinary(opening, moneyBits)

		closing := api.Add(opening, api.Mul(cc.Sales[i], cc.Price[i]))
		api.AssertIsEqual(cc.Money[i], closing)
		_ = api.ToBinary(cc.Money[i], moneyBits)
		balance = cc.Money[i]

		hasher.Write(
			cc.Money[i],
			cc.Spend[i],
			cc.Sales[i],
			cc.Price[i],
			cc.Weather[i],
			cc.Advertising[i],
		)
	}

	api.AssertIsEqual(cc.FinalScore, balance)
	api.AssertIsEqual(cc.HistoryCommitment, hasher.Sum())
	return nil
}

func (cc *ScoreCircuit) verifyRecipe(api frontend.API, i int) {
	r := game.StandardRecipe
	api.AssertIsEqual(cc.Recipe[i][0], r.LemonsPerCup)
	api.AssertIsEqual(cc.Recipe[i][1], r.SugarPerCup)
	api.AssertIsEqual(cc.Recipe[i][2], r.IcePerCup)

	api.AssertIsEqual(cc.LemonsUsed[i], api.Mul(cc.Sales[i], cc.Recipe[i][0]))
	api.AssertIsEqual(cc.SugarUsed[i], api.Mul(cc.Sales[i], cc.Recipe[i][1]))
	api.AssertIsEqual(cc.IceUsed[i], api.Mul(cc.Sales[i], cc.Recipe[i][2]))
}

func (cc *ScoreCircuit) verifyRanges(api frontend.API, i int) {
	// MinPrice <= price <= MaxPrice
	_ = api.ToBinary(api.Sub(cc.Price[i], game.MinPrice), priceBits)
	_ = api.ToBinary(api.Sub(game.MaxPrice, cc.Price[i]), priceBits)

	_ = api.ToBinary(cc.Weather[i], 2)
	_ = api.ToBinary(cc.Sales[i], moneyBits)
	_ = api.ToBinary(cc.Spend[i], moneyBits)
}

// advertisingCost looks the tier cost up from the 2-bit tier index.
func advertisingCost(api frontend.API, tier frontend.Variable) frontend.Variable {
	bits := api.ToBinary(tier, 2)
	return api.Lookup2(bits[0], bits[1],
		tierCost(game.AdNone),
		tierCost(game.AdFlyers),
		tierCost(game.AdSocial),
		tierCost(game.AdRadio),
	)
}

func tierCost(t game.AdType) int {
	ad, _ := game.AdvertisingFor(t)
	return ad.Cost
}

// CompileCircuit compiles the score circuit and runs the Groth16 setup.
func CompileCircuit() (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	var cc ScoreCircuit
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &cc)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("compile score circuit: %w", err)
	}

	// todo: replace the single-party setup with an MPC ceremony
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("groth16 setup: %w", err)
	}
	return ccs, pk, vk, nil
}
