package store

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Exchange    string  `yaml:"exchange"`
	Pair        string  `yaml:"pair"`
	TradeAmount float64 `yaml:"trade_amount_usd"`
	PollSeconds int     `yaml:"poll_seconds"`
	Timeframe   string  `yaml:"timeframe"`
	Window      int     `yaml:"window"`

	Strategy string `yaml:"strategy"`

	Indicators struct {
		RSIPeriod int `yaml:"rsi_period"`
		MAWindow  int `yaml:"ma_window"`
	} `yaml:"indicators"`

	Sentiment struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"sentiment"`

	Email struct {
		Enabled bool   `yaml:"enabled"`
		From    string `yaml:"from"`
		To      string `yaml:"to"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"email"`
}

func (c *Config) Validate() error {
	if c.Exchange == "" {
		return fmt.Errorf("exchange cannot be empty")
	}
	if c.TradeAmount <= 0 {
		return fmt.Errorf("trade_amount_usd must be positive, got %.2f", c.TradeAmount)
	}
	if c.PollSeconds <= 0 {
		return fmt.Errorf("poll_seconds must be positive, got %d", c.PollSeconds)
	}
	if c.Window < 30 {
		return fmt.Errorf("window must be at least 30 bars, got %d", c.Window)
	}
	return nil
}

// LoadConfig reads the YAML file (missing file is fine, defaults apply) and
// then applies environment variable overrides. Secrets (API key/secret, email
// password) are never read from the file, only from the environment.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&c)
	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("EXCHANGE_NAME"); v != "" {
		c.Exchange = v
	}
	if v := os.Getenv("TRADING_PAIR"); v != "" {
		c.Pair = v
	}
	if v := os.Getenv("TRADE_AMOUNT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.TradeAmount = f
		}
	}
	if v := os.Getenv("INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PollSeconds = n
		}
	}
	if v := os.Getenv("EMAIL_NOTIFICATIONS"); v != "" {
		c.Email.Enabled = v == "true" || v == "True" || v == "TRUE"
	}
	if v := os.Getenv("EMAIL_ADDRESS"); v != "" {
		c.Email.From = v
	}
	if v := os.Getenv("TO_EMAIL"); v != "" {
		c.Email.To = v
	}
	if v := os.Getenv("NEWS_URL"); v != "" {
		c.Sentiment.URL = v
	}
	if v := os.Getenv("STRATEGY"); v != "" {
		c.Strategy = v
	}
}

func applyDefaults(c *Config) {
	if c.Pair == "" {
		c.Pair = "BTC/USDT"
	}
	if c.TradeAmount == 0 {
		c.TradeAmount = 100
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 300
	}
	if c.Timeframe == "" {
		c.Timeframe = "5m"
	}
	if c.Window == 0 {
		c.Window = 100
	}
	if c.Strategy == "" {
		c.Strategy = "noop"
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.MAWindow == 0 {
		c.Indicators.MAWindow = 20
	}
	if c.Sentiment.URL == "" {
		c.Sentiment.URL = "https://www.coindesk.com/"
	}
	if c.Sentiment.TimeoutSeconds == 0 {
		c.Sentiment.TimeoutSeconds = 10
	}
	if c.Email.Host == "" {
		c.Email.Host = "smtp.gmail.com"
	}
	if c.Email.Port == 0 {
		c.Email.Port = 465
	}
}
