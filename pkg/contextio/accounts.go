package contextio

import (
	"context"
	"net/http"

	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/response"
)

var (
	listAccountsParams = []string{"limit", "offset", "email", "status_ok", "status"}
	addAccountParams   = []string{
		"email", "first_name", "last_name", "type", "server", "username",
		"provider_consumer_key", "provider_token", "provider_token_secret",
		"service_level", "sync_period", "password", "use_ssl", "port", "callback_url",
	}
	modifyAccountParams = []string{"first_name", "last_name"}
)

// Discovery looks up the IMAP settings for an email address.
func (a *API) Discovery(ctx context.Context, email string) (*response.Envelope, error) {
	if err := requireID("email", email); err != nil {
		return nil, err
	}
	return a.get(ctx, "", "discovery?source_type=imap&email="+params.Encode(email), nil)
}

// ListAccounts lists the accounts of the API key.
func (a *API) ListAccounts(ctx context.Context, set *params.Set) (*response.Envelope, error) {
	set, err := filterParams(set, listAccountsParams, nil)
	if err != nil {
		return nil, err
	}
	return a.get(ctx, "", "accounts", set)
}

// AddAccount creates an account. "email" is required.
func (a *API) AddAccount(ctx context.Context, set *params.Set) (*response.Envelope, error) {
	set, err := filterParams(set, addAccountParams, []string{"email"})
	if err != nil {
		return nil, err
	}
	return a.post(ctx, "", "accounts", set)
}

func (a *API) GetAccount(ctx context.Context, account string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	return a.get(ctx, account, "", nil)
}

// ModifyAccount updates first_name and/or last_name.
func (a *API) ModifyAccount(ctx context.Context, account string, set *params.Set) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	set, err := filterParams(set, modifyAccountParams, nil)
	if err != nil {
		return nil, err
	}
	return a.post(ctx, account, "", set)
}

func (a *API) DeleteAccount(ctx context.Context, account string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	return a.delete(ctx, account, "")
}

func (a *API) ListEmailAddresses(ctx context.Context, account string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	return a.get(ctx, account, "email_addresses", nil)
}

func (a *API) AddEmailAddress(ctx context.Context, account, address string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("email_address", address); err != nil {
		return nil, err
	}
	return a.post(ctx, account, "email_addresses", params.New().Add("email_address", address))
}

func (a *API) DeleteEmailAddress(ctx context.Context, account, address string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("email_address", address); err != nil {
		return nil, err
	}
	return a.delete(ctx, account, "email_addresses/"+address)
}

// SetPrimaryEmailAddress marks address as the account's primary address.
func (a *API) SetPrimaryEmailAddress(ctx context.Context, account, address string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("email_address", address); err != nil {
		return nil, err
	}
	return a.post(ctx, account, "email_addresses/"+address, params.New().Add("primary", "1"))
}

// ListAccountsMessages lists messages for several accounts one after the
// other. The first failing account aborts the whole listing and no
// partial result is returned; the error is a *client.BatchError.
func (a *API) ListAccountsMessages(ctx context.Context, accounts []string, set *params.Set) (map[string]*response.Envelope, error) {
	for _, account := range accounts {
		if err := ValidateAccount(account); err != nil {
			return nil, err
		}
	}
	set, err := filterParams(set, listMessagesParams, nil)
	if err != nil {
		return nil, err
	}
	return a.d.Batch(ctx, http.MethodGet, accounts, "messages", set)
}
