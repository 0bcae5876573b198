package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clear every override the loader reads so host environment cannot leak in
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EXCHANGE_NAME", "TRADING_PAIR", "TRADE_AMOUNT", "INTERVAL",
		"EMAIL_NOTIFICATIONS", "EMAIL_ADDRESS", "TO_EMAIL", "NEWS_URL", "STRATEGY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("EXCHANGE_NAME", "sim")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Pair != "BTC/USDT" {
		t.Errorf("Pair default: got %q", cfg.Pair)
	}
	if cfg.TradeAmount != 100 {
		t.Errorf("TradeAmount default: got %f", cfg.TradeAmount)
	}
	if cfg.PollSeconds != 300 {
		t.Errorf("PollSeconds default: got %d", cfg.PollSeconds)
	}
	if cfg.Timeframe != "5m" {
		t.Errorf("Timeframe default: got %q", cfg.Timeframe)
	}
	if cfg.Window != 100 {
		t.Errorf("Window default: got %d", cfg.Window)
	}
	if cfg.Strategy != "noop" {
		t.Errorf("Strategy default: got %q", cfg.Strategy)
	}
	if cfg.Indicators.RSIPeriod != 14 || cfg.Indicators.MAWindow != 20 {
		t.Errorf("indicator defaults: got %+v", cfg.Indicators)
	}
	if cfg.Email.Host != "smtp.gmail.com" || cfg.Email.Port != 465 {
		t.Errorf("email defaults: got %+v", cfg.Email)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
exchange: kraken
pair: ETH/USD
trade_amount_usd: 250
poll_seconds: 60
timeframe: 1m
window: 50
indicators:
  rsi_period: 7
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Exchange != "kraken" || cfg.Pair != "ETH/USD" {
		t.Errorf("got exchange %q pair %q", cfg.Exchange, cfg.Pair)
	}
	if cfg.TradeAmount != 250 || cfg.PollSeconds != 60 {
		t.Errorf("got amount %f poll %d", cfg.TradeAmount, cfg.PollSeconds)
	}
	if cfg.Indicators.RSIPeriod != 7 {
		t.Errorf("rsi_period: got %d", cfg.Indicators.RSIPeriod)
	}
	// unset file keys still fall back to defaults
	if cfg.Indicators.MAWindow != 20 {
		t.Errorf("ma_window default: got %d", cfg.Indicators.MAWindow)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("exchange: kraken\npair: ETH/USD\nwindow: 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EXCHANGE_NAME", "binance")
	t.Setenv("TRADING_PAIR", "BTC/USDT")
	t.Setenv("TRADE_AMOUNT", "42.5")
	t.Setenv("INTERVAL", "120")
	t.Setenv("EMAIL_NOTIFICATIONS", "true")
	t.Setenv("STRATEGY", "noop")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Exchange != "binance" {
		t.Errorf("Exchange: got %q", cfg.Exchange)
	}
	if cfg.Pair != "BTC/USDT" {
		t.Errorf("Pair: got %q", cfg.Pair)
	}
	if cfg.TradeAmount != 42.5 {
		t.Errorf("TradeAmount: got %f", cfg.TradeAmount)
	}
	if cfg.PollSeconds != 120 {
		t.Errorf("PollSeconds: got %d", cfg.PollSeconds)
	}
	if !cfg.Email.Enabled {
		t.Error("expected email enabled from env")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	clearConfigEnv(t)

	// no exchange anywhere
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected validation error without an exchange")
	}

	// negative trade amount
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("exchange: sim\ntrade_amount_usd: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "trade_amount_usd") {
		t.Errorf("expected trade amount validation error, got %v", err)
	}

	// window too small for the indicators
	if err := os.WriteFile(path, []byte("exchange: sim\nwindow: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected validation error for a 10-bar window")
	}

	// malformed yaml
	if err := os.WriteFile(path, []byte("exchange: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error for malformed yaml")
	}
}
