package contextio

import (
	"context"

	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/response"
)

var addWebhookParams = []string{
	"filter_to", "filter_from", "filter_cc", "filter_subject", "filter_thread",
	"filter_new_important", "filter_file_name", "filter_file_revisions",
	"sync_period", "callback_url", "failure_notif_url",
	"filter_folder_added", "filter_folder_removed",
}

func (a *API) ListWebhooks(ctx context.Context, account string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	return a.get(ctx, account, "webhooks", nil)
}

func (a *API) GetWebhook(ctx context.Context, account, webhookID string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("webhook id", webhookID); err != nil {
		return nil, err
	}
	return a.get(ctx, account, "webhooks/"+webhookID, nil)
}

// AddWebhook registers a webhook. callback_url and failure_notif_url are
// required.
func (a *API) AddWebhook(ctx context.Context, account string, set *params.Set) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	set, err := filterParams(set, addWebhookParams, []string{"callback_url", "failure_notif_url"})
	if err != nil {
		return nil, err
	}
	return a.post(ctx, account, "webhooks/", set)
}

// ModifyWebhook activates or deactivates a webhook.
func (a *API) ModifyWebhook(ctx context.Context, account, webhookID string, active bool) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("webhook id", webhookID); err != nil {
		return nil, err
	}
	v := "0"
	if active {
		v = "1"
	}
	return a.post(ctx, account, "webhooks/"+webhookID, params.New().Add("active", v))
}

func (a *API) DeleteWebhook(ctx context.Context, account, webhookID string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("webhook id", webhookID); err != nil {
		return nil, err
	}
	return a.delete(ctx, account, "webhooks/"+webhookID)
}
