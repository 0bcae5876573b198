package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
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

const krakenBaseURL = "https://api.kraken.com"

// Kraken talks to the Kraken REST API. Private endpoints sign with
// HMAC-SHA512 over the URI path and a SHA256 digest of nonce+postdata.
type Kraken struct {
	creds   Creds
	baseURL string
	client  *http.Client
}

var _ interfaces.Exchange = (*Kraken)(nil)

func NewKraken(creds Creds) *Kraken {
	return &Kraken{
		creds:   creds,
		baseURL: krakenBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// krakenPair converts "BTC/USDT" to Kraken's "XBTUSDT" notation.
func krakenPair(pair string) string {
	p := strings.ToUpper(strings.ReplaceAll(pair, "/", ""))
	return strings.ReplaceAll(p, "BTC", "XBT")
}

// krakenInterval maps a timeframe string to Kraken's minute granularity.
func krakenInterval(timeframe string) int {
	switch timeframe {
	case "1m":
		return 1
	case "15m":
		return 15
	case "30m":
		return 30
	case "1h":
		return 60
	case "4h":
		return 240
	case "1d":
		return 1440
	default:
		return 5
	}
}

type krakenEnvelope struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

func (k *Kraken) TestConnection(ctx context.Context) (float64, error) {
	return k.LastPrice(ctx, "BTC/USDT")
}

func (k *Kraken) LastPrice(ctx context.Context, pair string) (float64, error) {
	q := url.Values{"pair": {krakenPair(pair)}}
	result, err := k.public(ctx, "/0/public/Ticker", q)
	if err != nil {
		return 0, fmt.Errorf("kraken ticker %s: %w", pair, err)
	}
	// result is keyed by Kraken's canonical pair name; take the first entry
	var tickers map[string]struct {
		C []string `json:"c"`
	}
	if err := json.Unmarshal(result, &tickers); err != nil {
		return 0, fmt.Errorf("kraken ticker %s: decode: %w", pair, err)
	}
	for _, t := range tickers {
		if len(t.C) == 0 {
			break
		}
		price, err := strconv.ParseFloat(t.C[0], 64)
		if err != nil {
			return 0, fmt.Errorf("kraken ticker %s: bad price %q: %w", pair, t.C[0], err)
		}
		return price, nil
	}
	return 0, fmt.Errorf("kraken ticker %s: empty result", pair)
}

func (k *Kraken) RecentCandles(ctx context.Context, pair, timeframe string, limit int) ([]types.Candle, error) {
	q := url.Values{
		"pair":     {krakenPair(pair)},
		"interval": {strconv.Itoa(krakenInterval(timeframe))},
	}
	result, err := k.public(ctx, "/0/public/OHLC", q)
	if err != nil {
		return nil, fmt.Errorf("kraken ohlc %s: %w", pair, err)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(result, &body); err != nil {
		return nil, fmt.Errorf("kraken ohlc %s: decode: %w", pair, err)
	}

	var candles []types.Candle
	for key, raw := range body {
		if key == "last" {
			continue
		}
		// rows are [time, open, high, low, close, vwap, volume, count]
		var rows [][]json.RawMessage
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("kraken ohlc %s: decode rows: %w", pair, err)
		}
		for _, row := range rows {
			if len(row) < 7 {
				continue
			}
			var ts int64
			if err := json.Unmarshal(row[0], &ts); err != nil {
				continue
			}
			o, e1 := parseKrakenFloat(row[1])
			h, e2 := parseKrakenFloat(row[2])
			l, e3 := parseKrakenFloat(row[3])
			c, e4 := parseKrakenFloat(row[4])
			v, e5 := parseKrakenFloat(row[6])
			if e1 != nil || e2 != nil || e3 != nil || e4 != nil || e5 != nil {
				continue
			}
			candles = append(candles, types.Candle{Ts: ts, Open: o, High: h, Low: l, Close: c, Vol: v})
		}
		break
	}

	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

func (k *Kraken) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	if k.creds.APIKey == "" || k.creds.APISecret == "" {
		return types.OrderResp{}, errors.New("kraken: missing API key/secret")
	}

	path := "/0/private/AddOrder"
	nonce := strconv.FormatInt(time.Now().UnixNano(), 10)
	form := url.Values{
		"nonce":     {nonce},
		"pair":      {krakenPair(req.Pair)},
		"type":      {strings.ToLower(req.Side)},
		"ordertype": {"market"},
		"volume":    {strconv.FormatFloat(req.Volume, 'f', -1, 64)},
	}
	postData := form.Encode()

	sign, err := krakenSign(k.creds.APISecret, path, nonce, postData)
	if err != nil {
		return types.OrderResp{}, fmt.Errorf("kraken order: sign: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		k.baseURL+path, strings.NewReader(postData))
	if err != nil {
		return types.OrderResp{}, err
	}
	httpReq.Header.Set("API-Key", k.creds.APIKey)
	httpReq.Header.Set("API-Sign", sign)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.client.Do(httpReq)
	if err != nil {
		// same at-most-once caveat as every gateway: no retry on ambiguity
		return types.OrderResp{}, fmt.Errorf("kraken order %s %s: %w", req.Side, req.Pair, err)
	}
	defer resp.Body.Close()

	var env krakenEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return types.OrderResp{}, fmt.Errorf("kraken order %s %s: decode: %w", req.Side, req.Pair, err)
	}
	if len(env.Error) > 0 {
		return types.OrderResp{}, fmt.Errorf("kraken order %s %s: %s", req.Side, req.Pair, strings.Join(env.Error, "; "))
	}

	var out struct {
		Txid []string `json:"txid"`
	}
	if err := json.Unmarshal(env.Result, &out); err != nil {
		return types.OrderResp{}, fmt.Errorf("kraken order %s %s: decode result: %w", req.Side, req.Pair, err)
	}
	orderID := ""
	if len(out.Txid) > 0 {
		orderID = out.Txid[0]
	}
	return types.OrderResp{OrderID: orderID, Status: "PLACED"}, nil
}

// krakenSign builds the API-Sign header: HMAC-SHA512(path + SHA256(nonce +
// postdata)) with the base64-decoded secret as key.
func krakenSign(secret, path, nonce, postData string) (string, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256([]byte(nonce + postData))
	mac := hmac.New(sha512.New, key)
	mac.Write([]byte(path))
	mac.Write(digest[:])
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

func (k *Kraken) public(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	u := k.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := k.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, body)
	}
	var env krakenEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if len(env.Error) > 0 {
		return nil, errors.New(strings.Join(env.Error, "; "))
	}
	return env.Result, nil
}

func parseKrakenFloat(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	err := json.Unmarshal(raw, &f)
	return f, err
}
