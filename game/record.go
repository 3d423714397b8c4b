package game

import (
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// rlpRecord is the wire layout of a DailyRecord. RLP has no signed integers,
// so every counter travels as uint64.
type rlpRecord struct {
	Day             uint64
	Sales           uint64
	Revenue         uint64
	Customers       uint64
	Weather         uint8
	AdvertisingCost uint64
	IceUsed         uint64
	IceMelted       uint64
	LemonsUsed      uint64
	SugarUsed       uint64
	LemonsPerCup    uint64
	SugarPerCup     uint64
	IcePerCup       uint64
	Price           uint64
	Advertising     uint8
	Money           uint64
	IngredientSpend uint64
}

var errNegativeField = errors.New("negative value in daily record")

// EncodeRLP implements rlp.Encoder.
func (r DailyRecord) EncodeRLP(w io.Writer) error {
	fields := []int{
		r.Day, r.Sales, r.Revenue, r.Customers, r.AdvertisingCost,
		r.IceUsed, r.IceMelted, r.LemonsUsed, r.SugarUsed,
		r.Recipe.LemonsPerCup, r.Recipe.SugarPerCup, r.Recipe.IcePerCup,
		r.Price, r.Money, r.IngredientSpend,
	}
	for _, v := range fields {
		if v < 0 {
			return fmt.Errorf("day %d: %w", r.Day, errNegativeField)
		}
	}
	return rlp.Encode(w, &rlpRecord{
		Day:             uint64(r.Day),
		Sales:           uint64(r.Sales),
		Revenue:         uint64(r.Revenue),
		Customers:       uint64(r.Customers),
		Weather:         uint8(r.Weather),
		AdvertisingCost: uint64(r.AdvertisingCost),
		IceUsed:         uint64(r.IceUsed),
		IceMelted:       uint64(r.IceMelted),
		LemonsUsed:      uint64(r.LemonsUsed),
		SugarUsed:       uint64(r.SugarUsed),
		LemonsPerCup:    uint64(r.Recipe.LemonsPerCup),
		SugarPerCup:     uint64(r.Recipe.SugarPerCup),
		IcePerCup:       uint64(r.Recipe.IcePerCup),
		Price:           uint64(r.Price),
		Advertising:     uint8(r.Advertising),
		Money:           uint64(r.Money),
		IngredientSpend: uint64(r.IngredientSpend),
	})
}

// DecodeRLP implements rlp.Decoder.
func (r *DailyRecord) DecodeRLP(s *rlp.Stream) error {
	var tmp rlpRecord
	if err := s.Decode(&tmp); err != nil {
		return err
	}
	if !Weather(tmp.Weather).Valid() {
		return fmt.Errorf("day %d: invalid weather %d", tmp.Day, tmp.Weather)
	}
	if !AdType(tmp.Advertising).Valid() {
		return fmt.Errorf("day %d: invalid advertising %d", tmp.Day, tmp.Advertising)
	}
	*r = DailyRecord{
		Day:             int(tmp.Day),
		Sales:           int(tmp.Sales),
		Revenue:         int(tmp.Revenue),
		Customers:       int(tmp.Customers),
		Weather:         Weather(tmp.Weather),
		AdvertisingCost: int(tmp.AdvertisingCost),
		IceUsed:         int(tmp.IceUsed),
		IceMelted:       int(tmp.IceMelted),
		LemonsUsed:      int(tmp.LemonsUsed),
		SugarUsed:       int(tmp.SugarUsed),
		Recipe: Recipe{
			LemonsPerCup: int(tmp.LemonsPerCup),
			SugarPerCup:  int(tmp.SugarPerCup),
			IcePerCup:    int(tmp.IcePerCup),
		},
		Price:           int(tmp.Price),
		Advertising:     AdType(tmp.Advertising),
		Money:           int(tmp.Money),
		IngredientSpend: int(tmp.IngredientSpend),
	}
	return nil
}

func EncodeHistory(history []DailyRecord) ([]byte, error) {
	return rlp.EncodeToBytes(history)
}

func DecodeHistory(bz []byte) ([]DailyRecord, error) {
	var history []DailyRecord
	if err := rlp.DecodeBytes(bz, &history); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return history, nil
}

// CircuitInputs is the history flattened into the numeric arrays the score
// circuit consumes.
type CircuitInputs struct {
	// DailyState holds [money, lemonsUsed, sugarUsed, iceUsed] per day.
	DailyState       [][4]int
	DailyRecipe      [][3]int
	DailyPrice       []int
	DailyWeather     []int
	DailyAdvertising []int
	FinalScore       int
	StartingMoney    int
}

func NewCircuitInputs(history []DailyRecord, startingMoney, finalScore int) CircuitInputs {
	ci := CircuitInputs{
		DailyState:       make([][4]int, len(history)),
		DailyRecipe:      make([][3]int, len(history)),
		DailyPrice:       make([]int, len(history)),
		DailyWeather:     make([]int, len(history)),
		DailyAdvertising: make([]int, len(history)),
		FinalScore:       finalScore,
		StartingMoney:    startingMoney,
	}
	for i, r := range history {
		ci.DailyState[i] = [4]int{r.Money, r.LemonsUsed, r.SugarUsed, r.IceUsed}
		ci.DailyRecipe[i] = [3]int{r.Recipe.LemonsPerCup, r.Recipe.SugarPerCup, r.Recipe.IcePerCup}
		ci.DailyPrice[i] = r.Price
		ci.DailyWeather[i] = int(r.Weather)
		ci.DailyAdvertising[i] = int(r.Advertising)
	}
	return ci
}

// CircuitInputs converts a finished game. It reports false while the game
// is still running.
func (s GameState) CircuitInputs() (CircuitInputs, bool) {
	if !s.GameOver || s.FinalScore == nil {
		return CircuitInputs{}, false
	}
	return NewCircuitInputs(s.SalesHistory, StartingMoney, *s.FinalScore), true
}

func (ci CircuitInputs) Days() int {
	return len(ci.DailyState)
}

// Records rebuilds the circuit-visible part of each DailyRecord. Melted ice and
// customer counts are not carried by the circuit inputs and come back as zero.
func (ci CircuitInputs) Records() []DailyRecord {
	out := make([]DailyRecord, ci.Days())
	prev := ci.StartingMoney
	for i := range out {
		st := ci.DailyState[i]
		recipe := Recipe{
			LemonsPerCup: ci.DailyRecipe[i][0],
			SugarPerCup:  ci.DailyRecipe[i][1],
			IcePerCup:    ci.DailyRecipe[i][2],
		}
		var sales int
		if recipe.LemonsPerCup > 0 {
			sales = st[1] / recipe.LemonsPerCup
		}
		ad, _ := AdvertisingFor(AdType(ci.DailyAdvertising[i]))
		revenue := sales * ci.DailyPrice[i]
		out[i] = DailyRecord{
			Day:             i + 1,
			Sales:           sales,
			Revenue:         revenue,
			Weather:         Weather(ci.DailyWeather[i]),
			AdvertisingCost: ad.Cost,
			IceUsed:         st[3],
			LemonsUsed:      st[1],
			SugarUsed:       st[2],
			Recipe:          recipe,
			Price:           ci.DailyPrice[i],
			Advertising:     AdType(ci.DailyAdvertising[i]),
			Money:           st[0],
			IngredientSpend: prev - ad.Cost + revenue - st[0],
		}
		prev = st[0]
	}
	return out
}
