package contextio

import (
	"context"

	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/response"
)

var (
	addSourceParams = []string{
		"type", "email", "server", "username", "provider_consumer_key",
		"provider_token", "provider_token_secret", "service_level", "sync_period",
		"password", "use_ssl", "port", "callback_url",
	}
	modifySourceParams = []string{
		"provider_token", "provider_token_secret", "password",
		"provider_consumer_key", "mailboxes", "service_level", "sync_period",
	}
)

func (a *API) ListSources(ctx context.Context, account string, set *params.Set) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	set, err := filterParams(set, []string{"status_ok", "status"}, nil)
	if err != nil {
		return nil, err
	}
	return a.get(ctx, account, "sources", set)
}

func (a *API) GetSource(ctx context.Context, account, label string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("source label", label); err != nil {
		return nil, err
	}
	return a.get(ctx, account, "sources/"+label, nil)
}

// AddSource connects an IMAP mailbox. server and username are required;
// type defaults to "imap".
func (a *API) AddSource(ctx context.Context, account string, set *params.Set) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	set, err := filterParams(set, addSourceParams, []string{"server", "username"})
	if err != nil {
		return nil, err
	}
	if !set.Has("type") {
		set.Add("type", "imap")
	}
	return a.post(ctx, account, "sources/", set)
}

func (a *API) ModifySource(ctx context.Context, account, label string, set *params.Set) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("source label", label); err != nil {
		return nil, err
	}
	set, err := filterParams(set, modifySourceParams, nil)
	if err != nil {
		return nil, err
	}
	return a.post(ctx, account, "sources/"+label, set)
}

// ResetSourceStatus clears a source's error state.
func (a *API) ResetSourceStatus(ctx context.Context, account, label string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("source label", label); err != nil {
		return nil, err
	}
	return a.post(ctx, account, "sources/"+label, params.New().Add("status", "1"))
}

func (a *API) DeleteSource(ctx context.Context, account, label string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("source label", label); err != nil {
		return nil, err
	}
	return a.delete(ctx, account, "sources/"+label)
}

// SyncSource triggers a sync of one source, or of every source when label
// is empty.
func (a *API) SyncSource(ctx context.Context, account, label string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	return a.post(ctx, account, syncPath(label), nil)
}

// GetSync reports sync status, for one source or for all when label is
// empty.
func (a *API) GetSync(ctx context.Context, account, label string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	return a.get(ctx, account, syncPath(label), nil)
}

func syncPath(label string) string {
	if label == "" {
		return "sync"
	}
	return "sources/" + label + "/sync"
}

func (a *API) ListSourceFolders(ctx context.Context, account, label string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("source label", label); err != nil {
		return nil, err
	}
	return a.get(ctx, account, "sources/"+label+"/folders", nil)
}

// CreateFolder creates folder on a source with PUT. delim is optional.
func (a *API) CreateFolder(ctx context.Context, account, label, folder, delim string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("source label", label); err != nil {
		return nil, err
	}
	if err := requireID("folder", folder); err != nil {
		return nil, err
	}
	var set *params.Set
	if delim != "" {
		set = params.New().Add("delim", delim)
	}
	return a.put(ctx, account, "sources/"+label+"/folders/"+folder, set)
}
