package telegram

import (
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/subbot/core/telegram/netutil"
)

const (
	dialTimeout      = 5 * time.Second
	handshakeTimeout = 5 * time.Second
	idleConnTimeout  = 30 * time.Second
	keepAlive        = 30 * time.Second
	headerSlack      = 5 * time.Second
	requestSlack     = 20 * time.Second
	apiRetries       = 3
	apiRetryBackoff  = 2 * time.Second
)

// BuildHTTPClient returns the Bot API client. Header and request timeouts sit
// above pollTimeout so an idle getUpdates call is not cut short.
func BuildHTTPClient(pollTimeout time.Duration) *http.Client {
	if pollTimeout <= 0 {
		pollTimeout = defaultLongPollTimeout
	}
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: keepAlive}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   handshakeTimeout,
		ResponseHeaderTimeout: pollTimeout + headerSlack,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:   pollTimeout + requestSlack,
		Transport: &retryTransport{base: base, retries: apiRetries, backoff: apiRetryBackoff},
	}
}

// retryTransport repeats requests that failed before a response arrived.
// Requests whose body cannot be replayed are tried once.
type retryTransport struct {
	base    http.RoundTripper
	retries int
	backoff time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	for attempt := 1; err != nil && attempt <= t.retries; attempt++ {
		if !netutil.ShouldRetry(err) || (req.Body != nil && req.GetBody == nil) {
			break
		}
		if werr := sleepCtx(req, t.backoff*time.Duration(attempt)); werr != nil {
			return nil, werr
		}
		next := req.Clone(req.Context())
		if req.GetBody != nil {
			body, berr := req.GetBody()
			if berr != nil {
				return nil, berr
			}
			next.Body = body
		}
		resp, err = base.RoundTrip(next)
	}
	return resp, err
}

func sleepCtx(req *http.Request, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-timer.C:
		return nil
	}
}
