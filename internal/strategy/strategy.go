// Package strategy holds the pluggable decision predicates. The predicates
// are an injected policy: the engine only fixes the calling contract (buy
// checked before sell) and supplies a no-op default.
package strategy

import (
	"fmt"

	"sentiment-trading-bot/internal/interfaces"
	"sentiment-trading-bot/internal/types"
)

// Noop is the default strategy: never buys, never sells. It stands in until
// a real policy is plugged in.
type Noop struct{}

var _ interfaces.Strategy = (*Noop)(nil)

func NewNoop() *Noop { return &Noop{} }

func (Noop) ShouldBuy(s *types.Series, sentiment float64) bool  { return false }
func (Noop) ShouldSell(s *types.Series, sentiment float64) bool { return false }

// Resolve maps a strategy identifier to an implementation.
func Resolve(name string) (interfaces.Strategy, error) {
	switch name {
	case "", "noop":
		return NewNoop(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
