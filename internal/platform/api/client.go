package api

import (
	"net"
	"net/http"
	"time"
)

type clientOptions struct {
	timeout   time.Duration
	jar       http.CookieJar
	transport http.RoundTripper
}

type ClientOption func(*clientOptions)

// WithTimeout sets the whole-request timeout. The transport timeout is the
// only timeout this client applies; a timed-out call surfaces as a
// transport failure, never as an authorization failure.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) { o.timeout = d }
}

// WithJar attaches a cookie jar. The refresh credential travels as an
// HTTP-only cookie, so the jar is what keeps a login alive across calls.
func WithJar(jar http.CookieJar) ClientOption {
	return func(o *clientOptions) { o.jar = jar }
}

// WithTransport overrides the default transport.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) { o.transport = rt }
}

// NewHTTPClient builds the *http.Client the channel dispatches through.
func NewHTTPClient(opts ...ClientOption) *http.Client {
	options := clientOptions{timeout: 20 * time.Second}
	for _, opt := range opts {
		opt(&options)
	}

	transport := options.transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        32,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}

	return &http.Client{
		Timeout:   options.timeout,
		Transport: transport,
		Jar:       options.jar,
	}
}
