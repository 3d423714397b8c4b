package game

import "fmt"

const (
	MaxDays       = 7
	StartingMoney = 1200 // $120.00

	MinPrice     = 5  // $0.50
	MaxPrice     = 60 // $6.00
	DefaultPrice = 30 // $3.00
)

// Weather values double as the circuit encoding (0=rainy .. 3=hot).
type Weather uint8

const (
	Rainy Weather = iota
	Cloudy
	Sunny
	Hot
	numWeather
)

func (w Weather) String() string {
	switch w {
	case Rainy:
		return "rainy"
	case Cloudy:
		return "cloudy"
	case Sunny:
		return "sunny"
	case Hot:
		return "hot"
	}
	return fmt.Sprintf("weather(%d)", uint8(w))
}

func (w Weather) Valid() bool {
	return w < numWeather
}

func ParseWeather(s string) (Weather, error) {
	for w := Rainy; w < numWeather; w++ {
		if w.String() == s {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unknown weather: %q", s)
}

// AdType values double as the circuit encoding (0=none .. 3=radio).
type AdType uint8

const (
	AdNone AdType = iota
	AdFlyers
	AdSocial
	AdRadio
	numAdTypes
)

func (a AdType) String() string {
	switch a {
	case AdNone:
		return "none"
	case AdFlyers:
		return "flyers"
	case AdSocial:
		return "social"
	case AdRadio:
		return "radio"
	}
	return fmt.Sprintf("advertising(%d)", uint8(a))
}

func (a AdType) Valid() bool {
	return a < numAdTypes
}

func ParseAdType(s string) (AdType, error) {
	for a := AdNone; a < numAdTypes; a++ {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown advertising type: %q", s)
}

// Tenths is a demand multiplier in tenths: 25 means 2.5x.
type Tenths int

func (t Tenths) Float64() float64 {
	return float64(t) / 10
}

type Advertising struct {
	Type       AdType
	Cost       int
	Multiplier Tenths
}

var adTiers = [numAdTypes]Advertising{
	AdNone:   {Type: AdNone, Cost: 0, Multiplier: 8},
	AdFlyers: {Type: AdFlyers, Cost: 90, Multiplier: 12},
	AdSocial: {Type: AdSocial, Cost: 240, Multiplier: 18},
	AdRadio:  {Type: AdRadio, Cost: 450, Multiplier: 25},
}

// AdvertisingFor returns the fixed cost and multiplier of an advertising tier.
func AdvertisingFor(t AdType) (Advertising, bool) {
	if !t.Valid() {
		return Advertising{}, false
	}
	return adTiers[t], true
}

type Ingredient uint8

const (
	Lemons Ingredient = iota
	Sugar
	Ice
)

func (i Ingredient) String() string {
	switch i {
	case Lemons:
		return "lemons"
	case Sugar:
		return "sugar"
	case Ice:
		return "ice"
	}
	return fmt.Sprintf("ingredient(%d)", uint8(i))
}

func ParseIngredient(s string) (Ingredient, error) {
	for _, i := range []Ingredient{Lemons, Sugar, Ice} {
		if i.String() == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown ingredient: %q", s)
}

// UnitPrice is the purchase price of one unit, in ten-cent units.
func UnitPrice(i Ingredient) (int, bool) {
	switch i {
	case Lemons:
		return 5, true
	case Sugar:
		return 3, true
	case Ice:
		return 2, true
	}
	return 0, false
}

type Inventory struct {
	Lemons int
	Sugar  int
	Ice    int
}

func (inv *Inventory) add(i Ingredient, qty int) {
	switch i {
	case Lemons:
		inv.Lemons += qty
	case Sugar:
		inv.Sugar += qty
	case Ice:
		inv.Ice += qty
	}
}

type Recipe struct {
	LemonsPerCup int
	SugarPerCup  int
	IcePerCup    int
}

// StandardRecipe is used for every cup of every day.
var StandardRecipe = Recipe{LemonsPerCup: 2, SugarPerCup: 1, IcePerCup: 3}

// MaxCups is the number of cups the inventory can make.
func (r Recipe) MaxCups(inv Inventory) int {
	return min(
		inv.Lemons/r.LemonsPerCup,
		inv.Sugar/r.SugarPerCup,
		inv.Ice/r.IcePerCup,
	)
}

// PriceMultiplier is the price elasticity step function. Cheaper bands never
// draw fewer customers than more expensive ones.
func PriceMultiplier(price int) Tenths {
	switch {
	case price <= 10:
		return 30
	case price <= 20:
		return 20
	case price <= 30:
		return 10
	case price <= 40:
		return 8
	case price <= 50:
		return 6
	default:
		return 4
	}
}

// customerRange returns the half-open base customer range [lo, lo+span).
func customerRange(w Weather) (lo, span int) {
	switch w {
	case Hot:
		return 80, 20
	case Sunny:
		return 60, 20
	case Cloudy:
		return 40, 20
	case Rainy:
		return 20, 20
	}
	return 40, 20
}

// ExpectedCustomers is the demand at the middle of the weather's range.
func ExpectedCustomers(w Weather, t AdType, price int) int {
	ad, ok := AdvertisingFor(t)
	if !ok {
		ad = adTiers[AdNone]
	}
	lo, span := customerRange(w)
	return (lo + span/2) * int(ad.Multiplier) * int(PriceMultiplier(price)) / 100
}
