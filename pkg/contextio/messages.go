package contextio

import (
	"context"
	"os"
	"strings"

	"github.com/forcebit/contextio-go/pkg/apierr"
	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/response"
)

var listMessagesParams = []string{
	"subject", "date_before", "date_after", "indexed_after", "limit", "offset",
	"email", "to", "from", "cc", "bcc", "email_message_id", "type",
	"include_body", "include_headers", "include_flags", "folder", "gm_search",
	"include_person_info",
}

// MessageRef identifies a message. When several fields are set the first
// one in declaration order wins.
type MessageRef struct {
	// ID is the Context.IO message id.
	ID string
	// EmailMessageID is the Message-ID header value. It is path-escaped.
	EmailMessageID string
	// GmailMessageID is the Gmail message id, with or without "gm-".
	GmailMessageID string
}

func (r MessageRef) segment() (string, error) {
	switch {
	case r.ID != "":
		return r.ID, nil
	case r.EmailMessageID != "":
		return params.Encode(r.EmailMessageID), nil
	case r.GmailMessageID != "":
		if strings.HasPrefix(r.GmailMessageID, "gm-") {
			return r.GmailMessageID, nil
		}
		return "gm-" + r.GmailMessageID, nil
	default:
		return "", apierr.Invalid("contextio", "message id, email message id or gmail message id is required")
	}
}

// ListMessages lists the messages of an account.
func (a *API) ListMessages(ctx context.Context, account string, set *params.Set) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	set, err := filterParams(set, listMessagesParams, nil)
	if err != nil {
		return nil, err
	}
	return a.get(ctx, account, "messages", set)
}

// GetMessage returns one message. set accepts include_person_info.
func (a *API) GetMessage(ctx context.Context, account string, ref MessageRef, set *params.Set) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	seg, err := ref.segment()
	if err != nil {
		return nil, err
	}
	set, err = filterParams(set, []string{"include_person_info"}, nil)
	if err != nil {
		return nil, err
	}
	return a.get(ctx, account, "messages/"+seg, set)
}

// MessageSubresource fetches one of a message's sub-resources: "headers",
// "flags", "folders", "body" or "thread". Use GetMessageSource for the
// raw message.
func (a *API) MessageSubresource(ctx context.Context, account string, ref MessageRef, sub string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	switch sub {
	case "headers", "flags", "folders", "body", "thread":
	default:
		return nil, apierr.Invalid("contextio", "unknown message sub-resource %q", sub)
	}
	seg, err := ref.segment()
	if err != nil {
		return nil, err
	}
	return a.get(ctx, account, "messages/"+seg+"/"+sub, nil)
}

// AddMessage describes where a message is copied to and where it comes
// from. SourceFile uploads a raw RFC 822 message; otherwise Ref names a
// message already in the account.
type AddMessage struct {
	DstLabel   string
	DstFolder  string
	SourceFile string
	Ref        MessageRef
}

// AddMessageToFolder copies a message into a folder. The upload file is
// checked for readability before anything is sent.
func (a *API) AddMessageToFolder(ctx context.Context, account string, req AddMessage) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if req.DstLabel == "" && req.DstFolder == "" {
		return nil, apierr.Invalid("contextio", "dst_label or dst_folder is required")
	}

	set := params.New()
	if req.DstLabel != "" {
		set.Add("dst_label", req.DstLabel)
	}
	if req.DstFolder != "" {
		set.Add("dst_folder", req.DstFolder)
	}

	if req.SourceFile != "" {
		f, err := os.Open(req.SourceFile)
		if err != nil {
			return nil, &apierr.Error{Kind: apierr.InvalidArgument, Op: "contextio", Message: "invalid source file", Cause: err}
		}
		_ = f.Close()
		set.AddFile("message", req.SourceFile)
		return a.post(ctx, account, "messages", set)
	}

	seg, err := req.Ref.segment()
	if err != nil {
		return nil, apierr.Invalid("contextio", "source file or message reference is required")
	}
	return a.post(ctx, account, "messages/"+seg, set)
}

// ListThreads lists the threads of an account.
func (a *API) ListThreads(ctx context.Context, account string, set *params.Set) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	set, err := filterParams(set, []string{"subject", "indexed_after", "active_after", "active_before", "started_after", "started_before", "limit", "offset", "email", "to", "from", "cc", "bcc", "folder"}, nil)
	if err != nil {
		return nil, err
	}
	return a.get(ctx, account, "threads", set)
}
