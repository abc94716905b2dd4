package client

import (
	"context"
	"net/http"

	"github.com/forcebit/contextio-go/pkg/apierr"
	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/response"
)

// BatchError reports the account that aborted a batch. Exactly one of
// Envelope (the API answered with an error) and a transport Err is the
// cause; Err is always set.
type BatchError struct {
	Account  string
	Envelope *response.Envelope
	Err      error
}

func (e *BatchError) Error() string {
	return "batch aborted at account " + e.Account + ": " + e.Err.Error()
}

func (e *BatchError) Unwrap() error { return e.Err }

// Batch issues the same call once per account, sequentially, and returns
// the envelopes keyed by account.
//
// The first failure aborts the batch and the envelopes collected so far
// are discarded: the result is either complete or nil. Accounts listed
// twice are called twice; the last envelope wins.
func (c *Client) Batch(ctx context.Context, method string, accounts []string, path string, set *params.Set) (map[string]*response.Envelope, error) {
	if len(accounts) == 0 {
		return nil, apierr.Invalid("batch", "at least one account is required")
	}
	for _, a := range accounts {
		if a == "" {
			return nil, apierr.Invalid("batch", "empty account in batch")
		}
	}

	out := make(map[string]*response.Envelope, len(accounts))
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return nil, &BatchError{Account: account, Err: apierr.Transport("batch", err)}
		}
		env, err := c.Execute(ctx, Call{Method: method, Account: account, Path: path, Params: set})
		if err != nil {
			return nil, &BatchError{Account: account, Err: err}
		}
		if env.HasError() {
			c.log.Warn().
				Str("account", account).
				Int("status", env.StatusCode()).
				Msg("batch aborted")
			return nil, &BatchError{Account: account, Envelope: env, Err: env.Err(method + " " + ComposePath(account, path))}
		}
		out[account] = env
	}
	return out, nil
}

// GetBatch is Batch with GET.
func (c *Client) GetBatch(ctx context.Context, accounts []string, path string, set *params.Set) (map[string]*response.Envelope, error) {
	return c.Batch(ctx, http.MethodGet, accounts, path, set)
}
