package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sentiment-trading-bot/internal/interfaces"
	"sentiment-trading-bot/internal/types"
)

const binanceBaseURL = "https://api.binance.com"

// Binance talks to the Binance spot REST API. Market data endpoints are
// public; PlaceOrder signs requests with HMAC-SHA256.
type Binance struct {
	creds   Creds
	baseURL string
	client  *http.Client
}

var _ interfaces.Exchange = (*Binance)(nil)

func NewBinance(creds Creds) *Binance {
	return &Binance{
		creds:   creds,
		baseURL: binanceBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// binanceSymbol converts "BTC/USDT" to "BTCUSDT".
func binanceSymbol(pair string) string {
	return strings.ToUpper(strings.ReplaceAll(pair, "/", ""))
}

func (b *Binance) TestConnection(ctx context.Context) (float64, error) {
	return b.LastPrice(ctx, "BTC/USDT")
}

func (b *Binance) LastPrice(ctx context.Context, pair string) (float64, error) {
	var out struct {
		Price string `json:"price"`
	}
	q := url.Values{"symbol": {binanceSymbol(pair)}}
	if err := b.getJSON(ctx, "/api/v3/ticker/price", q, &out); err != nil {
		return 0, fmt.Errorf("binance ticker %s: %w", pair, err)
	}
	price, err := strconv.ParseFloat(out.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("binance ticker %s: bad price %q: %w", pair, out.Price, err)
	}
	return price, nil
}

func (b *Binance) RecentCandles(ctx context.Context, pair, timeframe string, limit int) ([]types.Candle, error) {
	q := url.Values{
		"symbol":   {binanceSymbol(pair)},
		"interval": {timeframe},
		"limit":    {strconv.Itoa(limit)},
	}
	// each kline is a heterogeneous array: open time, then OHLCV as strings
	var raw [][]json.RawMessage
	if err := b.getJSON(ctx, "/api/v3/klines", q, &raw); err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", pair, err)
	}

	candles := make([]types.Candle, 0, len(raw))
	for _, k := range raw {
		if len(k) < 6 {
			continue
		}
		var ts int64
		if err := json.Unmarshal(k[0], &ts); err != nil {
			continue
		}
		fields := make([]float64, 5)
		ok := true
		for i := 0; i < 5; i++ {
			var s string
			if err := json.Unmarshal(k[i+1], &s); err != nil {
				ok = false
				break
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				ok = false
				break
			}
			fields[i] = f
		}
		if !ok {
			continue
		}
		candles = append(candles, types.Candle{
			Ts:    ts / 1000,
			Open:  fields[0],
			High:  fields[1],
			Low:   fields[2],
			Close: fields[3],
			Vol:   fields[4],
		})
	}
	return candles, nil
}

func (b *Binance) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	if b.creds.APIKey == "" || b.creds.APISecret == "" {
		return types.OrderResp{}, errors.New("binance: missing API key/secret")
	}

	q := url.Values{
		"symbol":    {binanceSymbol(req.Pair)},
		"side":      {strings.ToUpper(req.Side)},
		"type":      {"MARKET"},
		"quantity":  {strconv.FormatFloat(req.Volume, 'f', -1, 64)},
		"timestamp": {strconv.FormatInt(time.Now().UnixMilli(), 10)},
	}
	payload := q.Encode()
	mac := hmac.New(sha256.New, []byte(b.creds.APISecret))
	mac.Write([]byte(payload))
	payload += "&signature=" + hex.EncodeToString(mac.Sum(nil))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.baseURL+"/api/v3/order", strings.NewReader(payload))
	if err != nil {
		return types.OrderResp{}, err
	}
	httpReq.Header.Set("X-MBX-APIKEY", b.creds.APIKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		// a timeout here may leave the order placed with no confirmation;
		// the caller treats placement as at-most-once and does not retry
		return types.OrderResp{}, fmt.Errorf("binance order %s %s: %w", req.Side, req.Pair, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.OrderResp{}, fmt.Errorf("binance order %s %s: http %d: %s", req.Side, req.Pair, resp.StatusCode, body)
	}

	var out struct {
		OrderID int64  `json:"orderId"`
		Status  string `json:"status"`
		Fills   []struct {
			Price string `json:"price"`
		} `json:"fills"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.OrderResp{}, fmt.Errorf("binance order %s %s: decode: %w", req.Side, req.Pair, err)
	}

	fill := 0.0
	if len(out.Fills) > 0 {
		fill, _ = strconv.ParseFloat(out.Fills[0].Price, 64)
	}
	return types.OrderResp{
		OrderID:   strconv.FormatInt(out.OrderID, 10),
		Status:    out.Status,
		FillPrice: fill,
	}, nil
}

func (b *Binance) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := b.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("http %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
