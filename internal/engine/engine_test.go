package engine

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"sentiment-trading-bot/internal/store"
	"sentiment-trading-bot/internal/types"
)

type stubExchange struct {
	candles     []types.Candle
	candleErr   error
	price       float64
	priceErr    error
	orderErr    error
	placed      []types.OrderReq
	connPrice   float64
	connErr     error
	panicCandle bool
}

func (s *stubExchange) TestConnection(ctx context.Context) (float64, error) {
	return s.connPrice, s.connErr
}

func (s *stubExchange) RecentCandles(ctx context.Context, pair, timeframe string, limit int) ([]types.Candle, error) {
	if s.panicCandle {
		panic("candle backend exploded")
	}
	return s.candles, s.candleErr
}

func (s *stubExchange) LastPrice(ctx context.Context, pair string) (float64, error) {
	return s.price, s.priceErr
}

func (s *stubExchange) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	s.placed = append(s.placed, req)
	if s.orderErr != nil {
		return types.OrderResp{}, s.orderErr
	}
	return types.OrderResp{OrderID: "TEST-1", Status: "FILLED", FillPrice: s.price}, nil
}

type stubStrategy struct {
	buy, sell bool
}

func (s stubStrategy) ShouldBuy(_ *types.Series, _ float64) bool  { return s.buy }
func (s stubStrategy) ShouldSell(_ *types.Series, _ float64) bool { return s.sell }

type stubNotifier struct {
	subjects []string
}

func (n *stubNotifier) Notify(_ context.Context, subject, _ string) {
	n.subjects = append(n.subjects, subject)
}

type stubSentiment struct {
	score    float64
	panicked bool
}

func (s stubSentiment) Score(_ context.Context) float64 {
	if s.panicked {
		panic("scraper blew up")
	}
	return s.score
}

func testConfig() *store.Config {
	cfg := &store.Config{
		Exchange:    "sim",
		Pair:        "BTC/USDT",
		TradeAmount: 100,
		PollSeconds: 300,
		Timeframe:   "5m",
		Window:      100,
	}
	cfg.Indicators.RSIPeriod = 14
	cfg.Indicators.MAWindow = 20
	return cfg
}

func testCandles(n int) []types.Candle {
	out := make([]types.Candle, n)
	for i := range out {
		c := 42000.0 + 10*float64(i%7) - 5*float64(i%3)
		out[i] = types.Candle{Ts: int64(1700000000 + 300*i), Open: c, High: c + 5, Low: c - 5, Close: c, Vol: 1}
	}
	return out
}

func useTempBotLog(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_LOG_FILE", filepath.Join(t.TempDir(), "bot.log"))
}

func TestStepNoSignal(t *testing.T) {
	useTempBotLog(t)
	exch := &stubExchange{candles: testCandles(60), price: 42000}
	notif := &stubNotifier{}
	eng := New(testConfig(), exch, stubStrategy{}, stubSentiment{score: 0.2}, notif)

	result, err := eng.Step(context.Background())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if result.Intent != types.IntentNone {
		t.Errorf("expected NONE intent, got %s", result.Intent)
	}
	if result.Order != nil {
		t.Error("expected no order for NONE intent")
	}
	if len(exch.placed) != 0 {
		t.Errorf("expected no order placed, got %d", len(exch.placed))
	}
	if !almostEqual(result.Sentiment, 0.2) {
		t.Errorf("expected sentiment carried into result, got %f", result.Sentiment)
	}
}

func TestStepBuyWinsOverSell(t *testing.T) {
	useTempBotLog(t)
	exch := &stubExchange{candles: testCandles(60), price: 42000}
	eng := New(testConfig(), exch, stubStrategy{buy: true, sell: true}, stubSentiment{}, &stubNotifier{})

	result, err := eng.Step(context.Background())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if result.Intent != types.IntentBuy {
		t.Errorf("expected BUY to win over SELL, got %s", result.Intent)
	}
	if len(exch.placed) != 1 || exch.placed[0].Side != "buy" {
		t.Errorf("expected one buy order, got %+v", exch.placed)
	}
}

func TestStepOrderVolumeRounding(t *testing.T) {
	useTempBotLog(t)
	exch := &stubExchange{candles: testCandles(60), price: 42000}
	eng := New(testConfig(), exch, stubStrategy{sell: true}, stubSentiment{}, &stubNotifier{})

	result, err := eng.Step(context.Background())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if result.Intent != types.IntentSell {
		t.Fatalf("expected SELL intent, got %s", result.Intent)
	}
	if len(exch.placed) != 1 {
		t.Fatalf("expected one order, got %d", len(exch.placed))
	}
	// 100 / 42000 rounded to six decimals
	if got := exch.placed[0].Volume; !almostEqual(got, 0.002381) {
		t.Errorf("expected volume 0.002381, got %f", got)
	}
	if result.Order == nil || result.Order.OrderID != "TEST-1" {
		t.Errorf("expected order response in result, got %+v", result.Order)
	}
}

func TestStepNotEnoughCandles(t *testing.T) {
	useTempBotLog(t)
	exch := &stubExchange{candles: testCandles(10), price: 42000}
	eng := New(testConfig(), exch, stubStrategy{}, stubSentiment{}, &stubNotifier{})

	if _, err := eng.Step(context.Background()); err == nil {
		t.Error("expected error when the candle window cannot fill the indicators")
	}
}

func TestStepOrderFailureIsContained(t *testing.T) {
	useTempBotLog(t)
	exch := &stubExchange{candles: testCandles(60), price: 42000, orderErr: errors.New("insufficient funds")}
	notif := &stubNotifier{}
	eng := New(testConfig(), exch, stubStrategy{buy: true}, stubSentiment{}, notif)

	result, err := eng.Step(context.Background())
	if err != nil {
		t.Fatalf("order failure must not fail the step: %v", err)
	}
	if result.Order != nil {
		t.Error("expected no order in result after placement failure")
	}
	if !strings.Contains(result.Reason, "insufficient funds") {
		t.Errorf("expected failure reason in result, got %q", result.Reason)
	}
	if !containsSubject(notif.subjects, "ORDER ERROR") {
		t.Errorf("expected ORDER ERROR notification, got %v", notif.subjects)
	}
}

func TestRunCycleSurvivesRepeatedFailures(t *testing.T) {
	useTempBotLog(t)
	ctx := context.Background()

	// returned errors
	notif := &stubNotifier{}
	eng := New(testConfig(), &stubExchange{candleErr: errors.New("exchange down")}, stubStrategy{}, stubSentiment{}, notif)
	for i := 0; i < 5; i++ {
		eng.runCycle(ctx)
	}
	if len(notif.subjects) != 5 {
		t.Fatalf("expected 5 notifications, got %d", len(notif.subjects))
	}
	for _, s := range notif.subjects {
		if s != "BOT ERROR" {
			t.Errorf("expected BOT ERROR subject, got %q", s)
		}
	}

	// panics
	notif = &stubNotifier{}
	eng = New(testConfig(), &stubExchange{panicCandle: true}, stubStrategy{}, stubSentiment{}, notif)
	for i := 0; i < 5; i++ {
		eng.runCycle(ctx)
	}
	if !containsSubject(notif.subjects, "BOT ERROR") {
		t.Errorf("expected BOT ERROR notification after panic, got %v", notif.subjects)
	}

	// a later healthy cycle still works
	eng = New(testConfig(), &stubExchange{candles: testCandles(60), price: 42000}, stubStrategy{}, stubSentiment{panicked: true}, &stubNotifier{})
	eng.runCycle(ctx)
	eng = New(testConfig(), &stubExchange{candles: testCandles(60), price: 42000}, stubStrategy{}, stubSentiment{}, &stubNotifier{})
	if _, err := eng.Step(ctx); err != nil {
		t.Errorf("healthy cycle after failures: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	useTempBotLog(t)
	ctx := context.Background()

	notif := &stubNotifier{}
	eng := New(testConfig(), &stubExchange{connPrice: 42000}, stubStrategy{}, stubSentiment{}, notif)
	eng.HealthCheck(ctx)
	if len(notif.subjects) != 0 {
		t.Errorf("expected no notification on healthy probe, got %v", notif.subjects)
	}

	notif = &stubNotifier{}
	eng = New(testConfig(), &stubExchange{connErr: errors.New("401 unauthorized")}, stubStrategy{}, stubSentiment{}, notif)
	eng.HealthCheck(ctx)
	if !containsSubject(notif.subjects, "API ERROR") {
		t.Errorf("expected API ERROR notification, got %v", notif.subjects)
	}
}

func TestRoundVolume(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{100.0 / 42000.0, 0.002381},
		{0.0000004, 0},
		{1.2345678, 1.234568},
	}
	for _, c := range cases {
		if got := roundVolume(c.in); !almostEqual(got, c.want) {
			t.Errorf("roundVolume(%f): got %f, want %f", c.in, got, c.want)
		}
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func containsSubject(subjects []string, want string) bool {
	for _, s := range subjects {
		if s == want {
			return true
		}
	}
	return false
}
