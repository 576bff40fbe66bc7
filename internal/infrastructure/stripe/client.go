package stripe

import (
	"github.com/stripe/stripe-go/v81/client"
)

// Client wraps the provider API surface the engine needs: read-only
// object fetches for thin-event fallback, event listing for
// reconciliation, and the outbound refund/session creators.
type Client struct {
	api *client.API
}

// NewClient creates a provider client bound to one API key
func NewClient(apiKey string) *Client {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Client{api: api}
}
