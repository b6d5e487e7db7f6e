package assistant

import "context"

// Provider defines the contract for the rental help assistant. It allows
// swapping chat-completion backends without touching the handler layer.
type Provider interface {
	// Reply answers a renter's question. contextMap carries dynamic details
	// such as the car being viewed or the dates being considered.
	Reply(ctx context.Context, message string, contextMap map[string]string) (string, error)
}
