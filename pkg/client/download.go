package client

import (
	"context"
	"io"
	"net/http"

	"github.com/forcebit/contextio-go/pkg/apierr"
	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/response"
)

// Download issues a signed GET and streams a 200 response body into w.
//
// On 200 it returns the number of bytes written and a nil envelope. Any
// other status is buffered into an error envelope and nothing is written
// to w. Failures writing to w are TransportErrors.
func (c *Client) Download(ctx context.Context, account, path string, set *params.Set, w io.Writer) (int64, *response.Envelope, error) {
	s := c.snapshot()

	httpReq, err := c.build(ctx, Call{Method: http.MethodGet, Account: account, Path: path, Params: set}, s)
	if err != nil {
		return 0, nil, err
	}
	httpReq.Header.Del("Accept")

	resp, reqLines, err := c.do(httpReq, s)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return 0, nil, apierr.Transport("download", err)
		}
		return 0, response.New(rawResponse(resp, body, reqLines, s)), nil
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, nil, apierr.Transport("download", err)
	}
	c.log.Debug().Str("path", ComposePath(account, path)).Int64("bytes", n).Msg("download completed")
	return n, nil, nil
}
