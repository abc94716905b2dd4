package comparison

import (
	"io"
	"net/http"
	"strings"
)

const (
	consumerKey    = "dpf43f3p2l4k3l03"
	consumerSecret = "kd94hf93k423kf44"
	tokenKey       = "nnch734d00sl2jdk"
	tokenSecret    = "pfkkdhi9sl3r4s00"
)

// testBase is a realistic base string for a message listing call.
const testBase = "GET&https%3A%2F%2Fapi.context.io%2F2.0%2Faccounts%2F4f0a%2Fmessages" +
	"&include_body%3D1%26limit%3D25%26oauth_consumer_key%3Ddpf43f3p2l4k3l03" +
	"%26oauth_nonce%3Dkllo9940pd9333jh%26oauth_signature_method%3DHMAC-SHA1" +
	"%26oauth_timestamp%3D1191242096%26oauth_token%3Dnnch734d00sl2jdk%26oauth_version%3D1.0"

// stubTransport answers every request with an empty JSON object so the
// benchmarks measure signing and dispatch, not the network.
type stubTransport struct{}

func (stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		_, _ = io.Copy(io.Discard, req.Body)
		_ = req.Body.Close()
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader("{}")),
		Request:    req,
	}, nil
}
