package contextio

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/forcebit/contextio-go/pkg/apierr"
	"github.com/forcebit/contextio-go/pkg/client"
	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/response"
)

var listFilesParams = []string{
	"indexed_after", "date_before", "date_after", "file_name", "limit", "offset",
	"email", "to", "from", "cc", "bcc", "group_by_revisions", "include_person_info",
}

// ListFiles lists the attachments of an account.
func (a *API) ListFiles(ctx context.Context, account string, set *params.Set) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	set, err := filterParams(set, listFilesParams, nil)
	if err != nil {
		return nil, err
	}
	return a.get(ctx, account, "files", set)
}

func (a *API) GetFile(ctx context.Context, account, fileID string) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("file id", fileID); err != nil {
		return nil, err
	}
	return a.get(ctx, account, "files/"+fileID, nil)
}

// GetFileChanges diffs two revisions of a file. generate defaults to 1.
func (a *API) GetFileChanges(ctx context.Context, account, fromID, toID string, set *params.Set) (*response.Envelope, error) {
	if err := ValidateAccount(account); err != nil {
		return nil, err
	}
	if err := requireID("file id", fromID); err != nil {
		return nil, err
	}
	if err := requireID("file id", toID); err != nil {
		return nil, err
	}
	set, err := filterParams(set, []string{"generate"}, nil)
	if err != nil {
		return nil, err
	}
	q := params.New().Add("file_id", toID)
	if set.Has("generate") {
		q.Add("generate", set.Get("generate"))
	} else {
		q.Add("generate", "1")
	}
	return a.get(ctx, account, "files/"+fromID+"/changes", q)
}

// GetFileContent streams an attachment into w and returns the number of
// bytes written. A non-200 answer is returned as a ProtocolError.
func (a *API) GetFileContent(ctx context.Context, account, fileID string, w io.Writer) (int64, error) {
	if err := ValidateAccount(account); err != nil {
		return 0, err
	}
	if err := requireID("file id", fileID); err != nil {
		return 0, err
	}
	return a.download(ctx, account, "files/"+fileID+"/content", w)
}

// GetMessageSource streams the raw RFC 822 source of a message into w.
func (a *API) GetMessageSource(ctx context.Context, account string, ref MessageRef, w io.Writer) (int64, error) {
	if err := ValidateAccount(account); err != nil {
		return 0, err
	}
	seg, err := ref.segment()
	if err != nil {
		return 0, err
	}
	return a.download(ctx, account, "messages/"+seg+"/source", w)
}

// SaveFileContent writes an attachment to path. The file is removed again
// when the download fails.
func (a *API) SaveFileContent(ctx context.Context, account, fileID, path string) (int64, error) {
	if err := ValidateAccount(account); err != nil {
		return 0, err
	}
	if err := requireID("file id", fileID); err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, &apierr.Error{Kind: apierr.InvalidArgument, Op: "contextio", Message: "cannot create " + path, Cause: err}
	}
	n, err := a.download(ctx, account, "files/"+fileID+"/content", f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = apierr.Transport("contextio", cerr)
	}
	if err != nil {
		return 0, errors.Join(err, os.Remove(path))
	}
	return n, nil
}

func (a *API) download(ctx context.Context, account, path string, w io.Writer) (int64, error) {
	n, env, err := a.d.Download(ctx, account, path, nil, w)
	if err != nil {
		return n, err
	}
	if env != nil {
		return 0, env.Err("GET " + client.ComposePath(account, path))
	}
	return n, nil
}
