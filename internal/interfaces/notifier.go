package interfaces

import "context"

// Notifier is a best-effort side channel. Implementations swallow their own
// delivery failures; a failed notification never propagates to the caller.
type Notifier interface {
	Notify(ctx context.Context, subject, body string)
}
