package types

import "math"

// Candle is one OHLCV bar as returned by an exchange, oldest first.
type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// Series is a fixed-window candle sequence plus indicator columns aligned
// by index. Indicator values are NaN where the rolling window is not yet
// full. Rebuilt from scratch every cycle; nothing is carried across cycles.
type Series struct {
	Candles []Candle
	RSI     []float64
	MA      []float64
	MACD    []float64
}

// Len returns the number of candles in the series.
func (s *Series) Len() int { return len(s.Candles) }

// Closes extracts the close column.
func (s *Series) Closes() []float64 {
	cl := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		cl[i] = c.Close
	}
	return cl
}

// Last returns the most recent value of col, or NaN if the series is empty.
func last(col []float64) float64 {
	if len(col) == 0 {
		return math.NaN()
	}
	return col[len(col)-1]
}

func (s *Series) LastRSI() float64  { return last(s.RSI) }
func (s *Series) LastMA() float64   { return last(s.MA) }
func (s *Series) LastMACD() float64 { return last(s.MACD) }

// LastClose returns the most recent close, or NaN if empty.
func (s *Series) LastClose() float64 {
	if len(s.Candles) == 0 {
		return math.NaN()
	}
	return s.Candles[len(s.Candles)-1].Close
}

// Intent is the outcome of evaluating the decision predicates for one cycle.
type Intent string

const (
	IntentBuy  Intent = "BUY"
	IntentSell Intent = "SELL"
	IntentNone Intent = "NONE"
)

type OrderReq struct {
	Pair   string
	Side   string // "buy" or "sell"
	Volume float64
}

type OrderResp struct {
	OrderID   string  `json:"order_id"`
	Status    string  `json:"status"`
	FillPrice float64 `json:"fill_price"`
}

// CycleResult summarizes one bot cycle for logging and tests.
type CycleResult struct {
	Pair      string      `json:"pair"`
	Intent    Intent      `json:"intent"`
	Sentiment float64     `json:"sentiment"`
	Price     float64     `json:"price"`
	Time      int64       `json:"time"`
	Order     *OrderResp  `json:"order,omitempty"`
	Reason    string      `json:"reason,omitempty"`
}
