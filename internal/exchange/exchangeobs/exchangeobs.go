// Package exchangeobs wraps an Exchange with logging and tracing middleware.
package exchangeobs

import (
	"context"

	"sentiment-trading-bot/internal/interfaces"
	"sentiment-trading-bot/internal/logger"
	"sentiment-trading-bot/internal/trace"
	"sentiment-trading-bot/internal/types"
)

type observableExchange struct {
	exch interfaces.Exchange
}

var _ interfaces.Exchange = (*observableExchange)(nil)

// Wrap wraps an exchange gateway with observability middleware.
func Wrap(exch interfaces.Exchange) interfaces.Exchange {
	return &observableExchange{exch: exch}
}

func (oe *observableExchange) TestConnection(ctx context.Context) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.TestConnection")
	defer span.End()

	price, err := oe.exch.TestConnection(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Connection test failed", err)
		return 0, err
	}
	logger.InfoSkip(ctx, 1, "Connection test succeeded", "price", price)
	return price, nil
}

func (oe *observableExchange) LastPrice(ctx context.Context, pair string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.LastPrice")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching last price", "pair", pair)
	price, err := oe.exch.LastPrice(ctx, pair)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch last price", err, "pair", pair)
		return 0, err
	}
	logger.DebugSkip(ctx, 1, "Last price fetched", "pair", pair, "price", price)
	return price, nil
}

func (oe *observableExchange) RecentCandles(ctx context.Context, pair, timeframe string, limit int) ([]types.Candle, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.RecentCandles")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching candles", "pair", pair, "timeframe", timeframe, "limit", limit)
	candles, err := oe.exch.RecentCandles(ctx, pair, timeframe, limit)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch candles", err, "pair", pair, "limit", limit)
		return nil, err
	}
	logger.DebugSkip(ctx, 1, "Candles fetched", "pair", pair, "count", len(candles))
	return candles, nil
}

func (oe *observableExchange) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	ctx, span := trace.StartSpan(ctx, "exchange.PlaceOrder")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Placing order",
		"pair", req.Pair,
		"side", req.Side,
		"volume", req.Volume,
	)
	resp, err := oe.exch.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to place order", err,
			"pair", req.Pair,
			"side", req.Side,
			"volume", req.Volume,
		)
		return types.OrderResp{}, err
	}
	logger.InfoSkip(ctx, 1, "Order placed",
		"pair", req.Pair,
		"order_id", resp.OrderID,
		"status", resp.Status,
	)
	return resp, nil
}
