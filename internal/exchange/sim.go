package exchange

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"sentiment-trading-bot/internal/interfaces"
	"sentiment-trading-bot/internal/types"
)

// Sim is a credential-free gateway producing synthetic market data and
// simulated fills. It lets the whole loop run end to end without touching a
// real exchange.
type Sim struct {
	rng  *rand.Rand
	base float64
}

var _ interfaces.Exchange = (*Sim)(nil)

func NewSim() *Sim {
	return &Sim{
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		base: 42000.0,
	}
}

func (s *Sim) TestConnection(ctx context.Context) (float64, error) {
	return s.LastPrice(ctx, "BTC/USDT")
}

func (s *Sim) LastPrice(ctx context.Context, pair string) (float64, error) {
	return s.base + (s.rng.Float64()-0.5)*200, nil
}

func (s *Sim) RecentCandles(ctx context.Context, pair, timeframe string, limit int) ([]types.Candle, error) {
	step := timeframeSeconds(timeframe)
	now := time.Now().Unix()
	cs := make([]types.Candle, 0, limit)
	price := s.base
	for i := limit; i > 0; i-- {
		price += (s.rng.Float64() - 0.5) * 50
		high := price + s.rng.Float64()*20
		low := price - s.rng.Float64()*20
		cs = append(cs, types.Candle{
			Ts:    now - int64(i)*step,
			Open:  price - (s.rng.Float64()-0.5)*10,
			High:  high,
			Low:   low,
			Close: price,
			Vol:   s.rng.Float64() * 100,
		})
	}
	return cs, nil
}

func (s *Sim) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	price, _ := s.LastPrice(ctx, req.Pair)
	return types.OrderResp{
		OrderID:   fmt.Sprintf("SIM-%d", time.Now().UnixNano()),
		Status:    "SIMULATED",
		FillPrice: price,
	}, nil
}

func timeframeSeconds(timeframe string) int64 {
	switch timeframe {
	case "1m":
		return 60
	case "15m":
		return 900
	case "30m":
		return 1800
	case "1h":
		return 3600
	case "4h":
		return 14400
	case "1d":
		return 86400
	default:
		return 300
	}
}
