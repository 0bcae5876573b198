package interfaces

import (
	"context"

	"sentiment-trading-bot/internal/types"
)

// Exchange is the external gateway contract. Every call may fail with a
// descriptive error; none may panic. PlaceOrder is at-most-once: a timeout
// after submission leaves fill status unknown and is not retried.
type Exchange interface {
	TestConnection(ctx context.Context) (float64, error)
	RecentCandles(ctx context.Context, pair, timeframe string, limit int) ([]types.Candle, error)
	LastPrice(ctx context.Context, pair string) (float64, error)
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error)
}
