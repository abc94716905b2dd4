// Package contextio provides typed entry points for the Context.IO 2.0
// resources on top of a client.Client.
//
// Every method validates its arguments before any request is made and
// returns an InvalidArgument error on bad input. Responses classified as
// errors are returned together with a ProtocolError, so a nil error always
// means a successful, decoded response:
//
//	api := contextio.New(c)
//	env, err := api.ListMessages(ctx, accountID, params.New().Add("limit", "10"))
//	if err != nil {
//	    return err
//	}
//	subject := env.DataProperty("0.subject")
package contextio

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/forcebit/contextio-go/pkg/apierr"
	"github.com/forcebit/contextio-go/pkg/client"
	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/response"
)

// Dispatcher is the part of client.Client the resource layer uses.
type Dispatcher interface {
	Execute(ctx context.Context, call client.Call) (*response.Envelope, error)
	Batch(ctx context.Context, method string, accounts []string, path string, set *params.Set) (map[string]*response.Envelope, error)
	Download(ctx context.Context, account, path string, set *params.Set, w io.Writer) (int64, *response.Envelope, error)
}

var _ Dispatcher = (*client.Client)(nil)

// API exposes the Context.IO resources.
type API struct {
	d Dispatcher
}

// New returns an API backed by d.
func New(d Dispatcher) *API {
	return &API{d: d}
}

func (a *API) call(ctx context.Context, method, account, path string, set *params.Set) (*response.Envelope, error) {
	env, err := a.d.Execute(ctx, client.Call{Method: method, Account: account, Path: path, Params: set})
	if err != nil {
		return nil, err
	}
	if env.HasError() {
		return env, env.Err(method + " " + client.ComposePath(account, path))
	}
	return env, nil
}

func (a *API) get(ctx context.Context, account, path string, set *params.Set) (*response.Envelope, error) {
	return a.call(ctx, http.MethodGet, account, path, set)
}

func (a *API) post(ctx context.Context, account, path string, set *params.Set) (*response.Envelope, error) {
	return a.call(ctx, http.MethodPost, account, path, set)
}

func (a *API) put(ctx context.Context, account, path string, set *params.Set) (*response.Envelope, error) {
	return a.call(ctx, http.MethodPut, account, path, set)
}

func (a *API) delete(ctx context.Context, account, path string) (*response.Envelope, error) {
	return a.call(ctx, http.MethodDelete, account, path, nil)
}

// ValidateAccount checks that id looks like an account id rather than an
// email address.
func ValidateAccount(id string) error {
	if id == "" {
		return apierr.Invalid("contextio", "account id is required")
	}
	if strings.Contains(id, "@") {
		return apierr.Invalid("contextio", "account %q must be an account id, not an email address", id)
	}
	return nil
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return apierr.Invalid("contextio", "%s is required", kind)
	}
	return nil
}

// filterParams returns a copy of set with lowercased names after checking
// every name against valid and every required name for presence. A nil
// set is treated as empty.
func filterParams(set *params.Set, valid, required []string) (*params.Set, error) {
	allowed := make(map[string]bool, len(valid))
	for _, name := range valid {
		allowed[name] = true
	}

	out := params.New()
	var err error
	set.Each(func(name string, v params.Value) {
		if err != nil {
			return
		}
		lower := strings.ToLower(name)
		if !allowed[lower] {
			err = apierr.Invalid("contextio", "parameter %q is not accepted here", name)
			return
		}
		if v.IsFile() {
			err = apierr.Invalid("contextio", "parameter %q does not accept a file", name)
			return
		}
		out.AddValue(lower, v)
	})
	if err != nil {
		return nil, err
	}

	for _, name := range required {
		if !out.Has(name) {
			return nil, apierr.Invalid("contextio", "parameter %q is required", name)
		}
	}
	return out, nil
}
