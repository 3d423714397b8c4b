package main

import (
	"math"

	"github.com/kysee/lemonzk/game"
)

var candidatePrices = []int{10, 20, 30, 40, 50, 60}

type plan struct {
	price int
	ad    game.AdType
	cups  int
}

// cupCost is the ingredient cost of one cup of the standard recipe.
func cupCost() int {
	r := game.StandardRecipe
	lemon, _ := game.UnitPrice(game.Lemons)
	sugar, _ := game.UnitPrice(game.Sugar)
	ice, _ := game.UnitPrice(game.Ice)
	return r.LemonsPerCup*lemon + r.SugarPerCup*sugar + r.IcePerCup*ice
}

// expectedDemand uses the forecast on the board. Under RollAtOpen the board
// still shows yesterday, so later days plan for the mean over all weathers.
func expectedDemand(s game.GameState, policy game.WeatherPolicy, ad game.AdType, price int) int {
	if policy != game.RollAtOpen {
		return game.ExpectedCustomers(s.Weather, ad, price)
	}
	if s.Day == 1 {
		return game.ExpectedCustomers(game.Sunny, ad, price)
	}
	sum := 0
	for w := game.Rainy; w <= game.Hot; w++ {
		sum += game.ExpectedCustomers(w, ad, price)
	}
	return sum / 4
}

// planDay picks the price and advertising with the best expected profit,
// buying for the expected demand.
func planDay(s game.GameState, policy game.WeatherPolicy) plan {
	unit := cupCost()
	best := plan{price: game.DefaultPrice, ad: game.AdNone}
	bestProfit := math.MinInt

	for _, price := range candidatePrices {
		for ad := game.AdNone; ad <= game.AdRadio; ad++ {
			tier, _ := game.AdvertisingFor(ad)
			if tier.Cost > s.Money {
				continue
			}
			cups := min(expectedDemand(s, policy, ad, price), (s.Money-tier.Cost)/unit)
			profit := cups*(price-unit) - tier.Cost
			if profit > bestProfit {
				best = plan{price: price, ad: ad, cups: cups}
				bestProfit = profit
			}
		}
	}
	return best
}

// playDay applies the plan for today and runs the day.
func playDay(e *game.Engine, policy game.WeatherPolicy) game.DayResult {
	s := e.State()
	p := planDay(s, policy)

	e.SetLemonadePrice(float64(p.price) / 10)
	e.SetAdvertising(p.ad)

	r := game.StandardRecipe
	need := map[game.Ingredient]int{
		game.Lemons: p.cups*r.LemonsPerCup - s.Inventory.Lemons,
		game.Sugar:  p.cups*r.SugarPerCup - s.Inventory.Sugar,
		game.Ice:    p.cups*r.IcePerCup - s.Inventory.Ice,
	}
	for _, item := range []game.Ingredient{game.Lemons, game.Sugar, game.Ice} {
		if need[item] > 0 {
			e.BuyIngredients(item, need[item])
		}
	}
	return e.SimulateDay()
}
