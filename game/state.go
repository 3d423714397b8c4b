package game

// DailyRecord is the settled outcome of one day. Records are never modified
// after they are appended to the history.
type DailyRecord struct {
	Day             int
	Sales           int
	Revenue         int
	Customers       int
	Weather         Weather
	AdvertisingCost int
	IceUsed         int
	IceMelted       int
	LemonsUsed      int
	SugarUsed       int
	Recipe          Recipe
	Price           int
	Advertising     AdType

	// Money is the closing balance after revenue was settled.
	Money int
	// IngredientSpend is what the player paid for ingredients before the day opened.
	IngredientSpend int
}

type GameState struct {
	Day          int
	Money        int
	Inventory    Inventory
	Price        int
	Weather      Weather
	Advertising  Advertising
	SalesHistory []DailyRecord
	GameOver     bool
	Won          bool
	FinalScore   *int
}

func newGameState() GameState {
	return GameState{
		Day:          1,
		Money:        StartingMoney,
		Price:        DefaultPrice,
		Weather:      Sunny,
		Advertising:  adTiers[AdNone],
		SalesHistory: []DailyRecord{},
	}
}

func (s GameState) clone() GameState {
	c := s
	c.SalesHistory = make([]DailyRecord, len(s.SalesHistory))
	copy(c.SalesHistory, s.SalesHistory)
	if s.FinalScore != nil {
		score := *s.FinalScore
		c.FinalScore = &score
	}
	return c
}

// DayResult is what SimulateDay reports back to the caller.
type DayResult struct {
	Sales   int
	Revenue int
	Weather Weather
	// CustomersServed is the demand drawn for the day, before inventory limits.
	CustomersServed int
	AdvertisingCost int
	IceUsed         int
	IceMelted       int
	LemonsUsed      int
	SugarUsed       int

	GameOver   bool
	Won        bool
	FinalScore *int
}

type Summary struct {
	TotalDays            int
	TotalRevenue         int
	TotalCups            int
	AverageRevenuePerDay float64
	GameOver             bool
	Won                  bool
	FinalScore           *int
}

func (s GameState) Summary() Summary {
	sum := Summary{
		TotalDays:  len(s.SalesHistory),
		GameOver:   s.GameOver,
		Won:        s.Won,
		FinalScore: s.FinalScore,
	}
	for _, r := range s.SalesHistory {
		sum.TotalRevenue += r.Revenue
		sum.TotalCups += r.Sales
	}
	if sum.TotalDays > 0 {
		sum.AverageRevenuePerDay = float64(sum.TotalRevenue) / float64(sum.TotalDays)
	}
	return sum
}
