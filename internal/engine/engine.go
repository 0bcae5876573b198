package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime/debug"
	"time"

	"sentiment-trading-bot/internal/botlog"
	"sentiment-trading-bot/internal/interfaces"
	"sentiment-trading-bot/internal/logger"
	"sentiment-trading-bot/internal/store"
	"sentiment-trading-bot/internal/ta"
	"sentiment-trading-bot/internal/trace"
	"sentiment-trading-bot/internal/types"
)

// SentimentSource produces one aggregate sentiment score per cycle. It never
// fails: fetch problems fold into a neutral 0.
type SentimentSource interface {
	Score(ctx context.Context) float64
}

// Engine drives the polling cycle: fetch bars, derive indicators, estimate
// sentiment, evaluate the strategy predicates, act, sleep. Any failure inside
// one cycle is contained at the cycle boundary; the loop always continues.
type Engine struct {
	cfg   *store.Config
	exch  interfaces.Exchange
	strat interfaces.Strategy
	notif interfaces.Notifier
	sent  SentimentSource
}

func New(cfg *store.Config, exch interfaces.Exchange, strat interfaces.Strategy, sent SentimentSource, notif interfaces.Notifier) *Engine {
	return &Engine{cfg: cfg, exch: exch, strat: strat, sent: sent, notif: notif}
}

// HealthCheck probes the exchange once at startup. A failure is logged and
// notified but never blocks the loop from starting.
func (e *Engine) HealthCheck(ctx context.Context) {
	price, err := e.exch.TestConnection(ctx)
	if err != nil {
		msg := fmt.Sprintf("API error: %v", err)
		_ = botlog.Printf("%s", msg)
		logger.ErrorWithErr(ctx, "Exchange health check failed", err)
		e.notif.Notify(ctx, "API ERROR", msg)
		return
	}
	_ = botlog.Printf("Exchange connection OK. Price: $%.2f", price)
	logger.Info(ctx, "Exchange connection OK", "price", price)
}

// Run executes the loop until the context is cancelled: health probe, then
// one cycle immediately and one per poll interval.
func (e *Engine) Run(ctx context.Context) {
	e.HealthCheck(ctx)

	interval := time.Duration(e.cfg.PollSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Bot loop stopped")
			return
		case <-ticker.C:
			e.runCycle(ctx)
		}
	}
}

// runCycle is the fault boundary: one faulty cycle must never terminate the
// loop. It absorbs both returned errors and panics from any stage.
func (e *Engine) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("Bot error: %v", r)
			_ = botlog.Printf("%s", msg)
			logger.Error(ctx, "Cycle panicked", "panic", r, "stack", string(debug.Stack()))
			e.notif.Notify(ctx, "BOT ERROR", msg+"\n\n"+string(debug.Stack()))
		}
	}()

	result, err := e.Step(ctx)
	if err != nil {
		msg := fmt.Sprintf("Bot error: %v", err)
		_ = botlog.Printf("%s", msg)
		logger.ErrorWithErr(ctx, "Cycle failed", err)
		e.notif.Notify(ctx, "BOT ERROR", msg)
		return
	}
	logger.Debug(ctx, "Cycle completed", "pair", result.Pair, "intent", result.Intent)
}

// Step runs one cycle and returns its outcome. Order placement failures are
// contained here (logged and notified, reflected in the result); only data
// acquisition and computation errors propagate to runCycle.
func (e *Engine) Step(ctx context.Context) (*types.CycleResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Step")
	defer span.End()

	candles, err := e.exch.RecentCandles(ctx, e.cfg.Pair, e.cfg.Timeframe, e.cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	if len(candles) <= e.cfg.Indicators.RSIPeriod {
		return nil, errors.New("not enough candles for indicators")
	}

	series := e.buildSeries(candles)
	price := series.LastClose()

	_ = botlog.Printf("RSI: %.1f, MACD: %.4f, Price: $%.2f", series.LastRSI(), series.LastMACD(), price)

	sentiment := e.sent.Score(ctx)
	_ = botlog.Printf("Sentiment: %.3f", sentiment)
	logger.Info(ctx, "Cycle state",
		"pair", e.cfg.Pair,
		"price", price,
		"rsi", series.LastRSI(),
		"macd", series.LastMACD(),
		"sentiment", sentiment,
	)

	intent := e.evaluate(series, sentiment)
	logger.Signal(ctx, e.cfg.Pair, string(intent), sentiment)

	result := &types.CycleResult{
		Pair:      e.cfg.Pair,
		Intent:    intent,
		Sentiment: sentiment,
		Price:     price,
		Time:      candles[len(candles)-1].Ts,
	}

	if intent == types.IntentNone {
		_ = botlog.Printf("No trade signal.")
		return result, nil
	}

	order, err := e.placeOrder(ctx, intent)
	if err != nil {
		result.Reason = err.Error()
		return result, nil
	}
	result.Order = order
	return result, nil
}

// evaluate applies the predicates. Buy is checked first; if both were
// somehow true, buy wins.
func (e *Engine) evaluate(series *types.Series, sentiment float64) types.Intent {
	if e.strat.ShouldBuy(series, sentiment) {
		return types.IntentBuy
	}
	if e.strat.ShouldSell(series, sentiment) {
		return types.IntentSell
	}
	return types.IntentNone
}

// placeOrder fetches the current price, sizes the order from the configured
// notional, and submits a market order. At most one attempt: an ambiguous
// failure (e.g. a timeout after submission) is reported, never retried.
func (e *Engine) placeOrder(ctx context.Context, intent types.Intent) (*types.OrderResp, error) {
	side := "buy"
	subject := "BUY ORDER"
	if intent == types.IntentSell {
		side = "sell"
		subject = "SELL ORDER"
	}

	price, err := e.exch.LastPrice(ctx, e.cfg.Pair)
	if err != nil {
		msg := fmt.Sprintf("Order error: %v", err)
		_ = botlog.Printf("%s", msg)
		logger.ErrorWithErr(ctx, "Failed to fetch price for order", err, "pair", e.cfg.Pair)
		e.notif.Notify(ctx, "ORDER ERROR", msg)
		return nil, err
	}

	volume := roundVolume(e.cfg.TradeAmount / price)
	resp, err := e.exch.PlaceOrder(ctx, types.OrderReq{Pair: e.cfg.Pair, Side: side, Volume: volume})
	if err != nil {
		msg := fmt.Sprintf("Order error: %v", err)
		_ = botlog.Printf("%s", msg)
		logger.ErrorWithErr(ctx, "Order placement failed", err, "pair", e.cfg.Pair, "side", side)
		e.notif.Notify(ctx, "ORDER ERROR", msg)
		return nil, err
	}

	msg := fmt.Sprintf("Order placed: %s %.6f at $%.2f", sideUpper(side), volume, price)
	_ = botlog.Printf("%s", msg)
	logger.Trade(ctx, e.cfg.Pair, sideUpper(side), volume, price, resp.OrderID)
	e.notif.Notify(ctx, subject, msg)
	return &resp, nil
}

func (e *Engine) buildSeries(candles []types.Candle) *types.Series {
	s := &types.Series{Candles: candles}
	closes := s.Closes()
	s.RSI = ta.RSISeries(closes, e.cfg.Indicators.RSIPeriod)
	s.MA = ta.SMASeries(closes, e.cfg.Indicators.MAWindow)
	s.MACD = ta.MACDSeries(closes)
	return s
}

// roundVolume rounds to the fixed 6-decimal order precision.
func roundVolume(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func sideUpper(side string) string {
	if side == "sell" {
		return "SELL"
	}
	return "BUY"
}
