// Package exchange provides the named gateway implementations behind the
// Exchange interface. The identifier comes from configuration and is
// resolved once at startup; an unrecognized identifier is a fatal
// configuration error.
package exchange

import (
	"errors"
	"fmt"
	"strings"

	"sentiment-trading-bot/internal/interfaces"
)

// ErrUnsupported is returned by Resolve for an unrecognized exchange
// identifier.
var ErrUnsupported = errors.New("unsupported exchange")

// Creds carries the API credentials for a gateway. Market-data calls work
// without them; order placement requires both fields.
type Creds struct {
	APIKey    string
	APISecret string
}

// Resolve maps an exchange identifier to a gateway implementation.
func Resolve(name string, creds Creds) (interfaces.Exchange, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "binance":
		return NewBinance(creds), nil
	case "kraken":
		return NewKraken(creds), nil
	case "sim", "paper":
		return NewSim(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
}
