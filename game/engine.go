package game

import (
	"math"

	"github.com/rs/zerolog"
)

// WeatherPolicy decides which weather value drives a day's demand.
type WeatherPolicy uint8

const (
	// ForecastWeather uses the forecast shown to the player before the day
	// opened. The next forecast is drawn after the day closes.
	ForecastWeather WeatherPolicy = iota
	// RollAtOpen draws the day's weather when the day opens; day 1 is sunny.
	RollAtOpen
)

func (p WeatherPolicy) String() string {
	switch p {
	case ForecastWeather:
		return "forecast"
	case RollAtOpen:
		return "roll"
	}
	return "unknown"
}

type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

func WithWeatherPolicy(p WeatherPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithSecondDaySunny pins day 2 to sunny weather.
func WithSecondDaySunny() Option {
	return func(e *Engine) {
		e.secondDaySunny = true
	}
}

// Engine runs the day-by-day lemonade stand simulation. It is not safe for
// concurrent use.
type Engine struct {
	state GameState
	// spend accumulates ingredient purchases until the day is simulated.
	spend int

	rnd            RandSource
	log            zerolog.Logger
	policy         WeatherPolicy
	secondDaySunny bool
}

// NewEngine creates an engine drawing from rnd. A nil rnd is replaced with a
// source seeded from crypto/rand.
func NewEngine(rnd RandSource, opts ...Option) *Engine {
	e := &Engine{
		state: newGameState(),
		rnd:   rnd,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rnd == nil {
		seed, err := NewSeed()
		if err != nil {
			e.log.Warn().Err(err).Msg("falling back to a fixed seed")
		}
		e.rnd = NewSeededRand(seed)
	}
	e.logInitialState("new game")
	return e
}

func (e *Engine) ResetGame() {
	e.state = newGameState()
	e.spend = 0
	e.logInitialState("game reset")
}

// State returns a copy of the game state.
func (e *Engine) State() GameState {
	return e.state.clone()
}

func (e *Engine) BuyIngredients(item Ingredient, quantity int) bool {
	s := &e.state
	if s.GameOver || quantity <= 0 {
		return false
	}
	unit, ok := UnitPrice(item)
	if !ok {
		return false
	}
	// quantity*unit > money, without overflowing on huge quantities
	if quantity > s.Money/unit {
		return false
	}
	cost := unit * quantity
	s.Money -= cost
	s.Inventory.add(item, quantity)
	e.spend += cost
	return true
}

// SetLemonadePrice takes the price in dollars and stores it in ten-cent units.
func (e *Engine) SetLemonadePrice(dollars float64) bool {
	if e.state.GameOver || math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return false
	}
	units := math.Round(dollars * 10)
	if units < MinPrice || units > MaxPrice {
		return false
	}
	e.state.Price = int(units)
	return true
}

func (e *Engine) SetAdvertising(t AdType) bool {
	s := &e.state
	if s.GameOver {
		return false
	}
	tier, ok := AdvertisingFor(t)
	if !ok {
		return false
	}
	if t == s.Advertising.Type {
		return true
	}
	if t != AdNone && tier.Cost > s.Money {
		return false
	}
	s.Advertising = tier
	return true
}

func (e *Engine) SimulateDay() DayResult {
	s := &e.state
	if s.GameOver {
		return e.frozenResult()
	}

	e.log.Debug().
		Int("day", s.Day).
		Int("money", s.Money).
		Int("lemons", s.Inventory.Lemons).
		Int("sugar", s.Inventory.Sugar).
		Int("ice", s.Inventory.Ice).
		Int("price", s.Price).
		Stringer("weather", s.Weather).
		Stringer("advertising", s.Advertising.Type).
		Msg("day opening")

	// the player's selection survives; only today falls back to none
	ad := s.Advertising
	if ad.Cost > s.Money {
		e.log.Info().
			Int("day", s.Day).
			Stringer("selected", ad.Type).
			Int("cost", ad.Cost).
			Int("money", s.Money).
			Msg("advertising unaffordable, running without")
		ad = adTiers[AdNone]
	}
	s.Money -= ad.Cost

	weather := e.openingWeather()
	lo, span := customerRange(weather)
	base := lo + intn(e.rnd, span)
	priceMul := PriceMultiplier(s.Price)
	customers := base * int(ad.Multiplier) * int(priceMul) / 100

	recipe := StandardRecipe
	maxCups := recipe.MaxCups(s.Inventory)
	sales := min(customers, maxCups)

	e.log.Debug().
		Int("base", base).
		Stringer("weather", weather).
		Float64("priceMultiplier", priceMul.Float64()).
		Float64("adMultiplier", ad.Multiplier.Float64()).
		Int("customers", customers).
		Int("maxCups", maxCups).
		Int("sales", sales).
		Msg("demand")

	revenue := sales * s.Price
	s.Money += revenue

	lemonsUsed := sales * recipe.LemonsPerCup
	sugarUsed := sales * recipe.SugarPerCup
	iceUsed := sales * recipe.IcePerCup
	s.Inventory.Lemons -= lemonsUsed
	s.Inventory.Sugar -= sugarUsed
	s.Inventory.Ice -= iceUsed

	// whatever ice is left melts overnight
	iceMelted := s.Inventory.Ice
	s.Inventory.Ice = 0

	s.SalesHistory = append(s.SalesHistory, DailyRecord{
		Day:             s.Day,
		Sales:           sales,
		Revenue:         revenue,
		Customers:       customers,
		Weather:         weather,
		AdvertisingCost: ad.Cost,
		IceUsed:         iceUsed,
		IceMelted:       iceMelted,
		LemonsUsed:      lemonsUsed,
		SugarUsed:       sugarUsed,
		Recipe:          recipe,
		Price:           s.Price,
		Advertising:     ad.Type,
		Money:           s.Money,
		IngredientSpend: e.spend,
	})
	e.spend = 0

	e.log.Info().
		Int("day", s.Day).
		Int("sales", sales).
		Int("revenue", revenue).
		Int("money", s.Money).
		Int("iceMelted", iceMelted).
		Msg("day closed")

	s.Day++
	e.checkGameOver()
	if !s.GameOver && e.policy == ForecastWeather {
		s.Weather = e.forecast(s.Day)
	}

	return DayResult{
		Sales:           sales,
		Revenue:         revenue,
		Weather:         weather,
		CustomersServed: customers,
		AdvertisingCost: ad.Cost,
		IceUsed:         iceUsed,
		IceMelted:       iceMelted,
		LemonsUsed:      lemonsUsed,
		SugarUsed:       sugarUsed,
		GameOver:        s.GameOver,
		Won:             s.Won,
		FinalScore:      e.finalScore(),
	}
}

// openingWeather returns the weather that drives today's demand.
func (e *Engine) openingWeather() Weather {
	s := &e.state
	if e.policy == RollAtOpen {
		if s.Day == 1 {
			s.Weather = Sunny
		} else {
			s.Weather = e.forecast(s.Day)
		}
	}
	return s.Weather
}

func (e *Engine) forecast(day int) Weather {
	if e.secondDaySunny && day == 2 {
		return Sunny
	}
	return Weather(intn(e.rnd, int(numWeather)))
}

func (e *Engine) checkGameOver() {
	s := &e.state
	if s.Day <= MaxDays {
		return
	}
	s.GameOver = true
	s.Won = s.Money > StartingMoney
	score := s.Money
	s.FinalScore = &score
	e.log.Info().
		Int("finalScore", score).
		Bool("won", s.Won).
		Msg("game over")
}

func (e *Engine) frozenResult() DayResult {
	return DayResult{
		Weather:    e.state.Weather,
		GameOver:   true,
		Won:        e.state.Won,
		FinalScore: e.finalScore(),
	}
}

func (e *Engine) finalScore() *int {
	if e.state.FinalScore == nil {
		return nil
	}
	score := *e.state.FinalScore
	return &score
}

func (e *Engine) logInitialState(msg string) {
	s := &e.state
	e.log.Info().
		Int("money", s.Money).
		Int("price", s.Price).
		Stringer("weather", s.Weather).
		Stringer("advertising", s.Advertising.Type).
		Stringer("weatherPolicy", e.policy).
		Msg(msg)
}
