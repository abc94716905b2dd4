package contextio

import (
	"context"

	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/response"
)

var addConnectTokenParams = []string{"service_level", "email", "callback_url", "first_name", "last_name"}

// optionalAccount validates account when it is set. Connect tokens exist
// both at the API key level (account "") and per account.
func optionalAccount(account string) error {
	if account == "" {
		return nil
	}
	return ValidateAccount(account)
}

func (a *API) ListConnectTokens(ctx context.Context, account string) (*response.Envelope, error) {
	if err := optionalAccount(account); err != nil {
		return nil, err
	}
	return a.get(ctx, account, "connect_tokens", nil)
}

func (a *API) GetConnectToken(ctx context.Context, account, token string) (*response.Envelope, error) {
	if err := optionalAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("token", token); err != nil {
		return nil, err
	}
	return a.get(ctx, account, "connect_tokens/"+token, nil)
}

// AddConnectToken starts a connect flow. callback_url is required.
func (a *API) AddConnectToken(ctx context.Context, account string, set *params.Set) (*response.Envelope, error) {
	if err := optionalAccount(account); err != nil {
		return nil, err
	}
	set, err := filterParams(set, addConnectTokenParams, []string{"callback_url"})
	if err != nil {
		return nil, err
	}
	return a.post(ctx, account, "connect_tokens", set)
}

func (a *API) DeleteConnectToken(ctx context.Context, account, token string) (*response.Envelope, error) {
	if err := optionalAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("token", token); err != nil {
		return nil, err
	}
	return a.delete(ctx, account, "connect_tokens/"+token)
}

func (a *API) ListOAuthProviders(ctx context.Context) (*response.Envelope, error) {
	return a.get(ctx, "", "oauth_providers", nil)
}

func (a *API) GetOAuthProvider(ctx context.Context, consumerKey string) (*response.Envelope, error) {
	if err := requireID("provider consumer key", consumerKey); err != nil {
		return nil, err
	}
	return a.get(ctx, "", "oauth_providers/"+consumerKey, nil)
}

// AddOAuthProvider registers the OAuth consumer used to access a mail
// provider. type, provider_consumer_key and provider_consumer_secret are
// required.
func (a *API) AddOAuthProvider(ctx context.Context, set *params.Set) (*response.Envelope, error) {
	names := []string{"type", "provider_consumer_key", "provider_consumer_secret"}
	set, err := filterParams(set, names, names)
	if err != nil {
		return nil, err
	}
	return a.post(ctx, "", "oauth_providers", set)
}

func (a *API) DeleteOAuthProvider(ctx context.Context, consumerKey string) (*response.Envelope, error) {
	if err := requireID("provider consumer key", consumerKey); err != nil {
		return nil, err
	}
	return a.delete(ctx, "", "oauth_providers/"+consumerKey)
}
