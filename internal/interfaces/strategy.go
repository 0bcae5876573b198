package interfaces

import "sentiment-trading-bot/internal/types"

// Strategy supplies the buy/sell predicates. Implementations must be pure
// functions of the inputs. The engine evaluates ShouldBuy first; when both
// predicates return true the intent is BUY.
type Strategy interface {
	ShouldBuy(s *types.Series, sentiment float64) bool
	ShouldSell(s *types.Series, sentiment float64) bool
}
