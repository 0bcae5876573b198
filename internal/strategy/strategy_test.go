package strategy

import (
	"math"
	"testing"

	"sentiment-trading-bot/internal/ta"
	"sentiment-trading-bot/internal/types"
)

func TestNoopNeverTrades(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 42000 + float64(i%5)*10
	}
	series := &types.Series{
		RSI:  ta.RSISeries(closes, 14),
		MA:   ta.SMASeries(closes, 20),
		MACD: ta.MACDSeries(closes),
	}
	n := NewNoop()
	for _, sentiment := range []float64{-1, -0.5, 0, 0.5, 1, math.NaN()} {
		if n.ShouldBuy(series, sentiment) {
			t.Errorf("ShouldBuy(%f) = true", sentiment)
		}
		if n.ShouldSell(series, sentiment) {
			t.Errorf("ShouldSell(%f) = true", sentiment)
		}
	}
}

func TestResolve(t *testing.T) {
	if _, err := Resolve(""); err != nil {
		t.Errorf("empty name should resolve to the default: %v", err)
	}
	if _, err := Resolve("noop"); err != nil {
		t.Errorf("Resolve(noop): %v", err)
	}
	if _, err := Resolve("momentum"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
