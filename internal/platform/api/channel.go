package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	apperrors "tempo/internal/platform/errors"
	"tempo/internal/platform/session"
)

// Channel dispatches every outbound call, attaching the current session
// credential and coordinating credential refresh. When several calls fail
// with an expired credential at once, exactly one refresh is issued; the
// rest queue up behind it and are replayed once it settles (single-flight).
type Channel struct {
	base    *url.URL
	client  *http.Client
	session *session.Holder

	// onExpired fires once per terminal authentication failure, after the
	// session has been cleared.
	onExpired func()

	mu         sync.Mutex
	refreshing bool
	waiters    []chan error
}

var errLogoutWon = errors.New("session replaced during refresh")

type Option func(*Channel)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Channel) { c.client = client }
}

func WithExpiredFunc(fn func()) Option {
	return func(c *Channel) { c.onExpired = fn }
}

func NewChannel(baseURL string, holder *session.Holder, opts ...Option) (*Channel, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	c := &Channel{base: base, session: holder}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = NewHTTPClient()
	}
	return c, nil
}

// Do dispatches req, decoding the JSON response into out when out is
// non-nil. An expired credential is handled here: the call waits for (or
// initiates) a refresh and is replayed exactly once. A second rejection on
// replay is terminal.
func (c *Channel) Do(ctx context.Context, req Request, out any) error {
	err := c.dispatch(ctx, req, out)
	if !errors.Is(err, apperrors.ErrAuthorizationExpired) {
		return err
	}
	if req.Public {
		// A 401 from login or signup is the caller's credentials being
		// rejected, not an expired session.
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return &Error{Status: apiErr.Status, Detail: apiErr.Detail, wrapped: apperrors.ErrInvalidInput}
		}
		return err
	}

	if err := c.awaitRefresh(ctx); err != nil {
		return err
	}

	err = c.dispatch(ctx, req, out)
	if errors.Is(err, apperrors.ErrAuthorizationExpired) {
		return fmt.Errorf("%w: credential rejected on replay", apperrors.ErrAuthenticationFailed)
	}
	return err
}

// awaitRefresh either joins an in-flight refresh or becomes its initiator.
// Queued callers are resolved in enqueue order, each exactly once.
func (c *Channel) awaitRefresh(ctx context.Context) error {
	c.mu.Lock()
	if c.refreshing {
		ch := make(chan error, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()
		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	// The refresh outlives the initiating caller's context so that one
	// canceled request cannot fail every queued one. The HTTP client's own
	// timeout still bounds it.
	result := c.runRefresh(context.WithoutCancel(ctx))

	var failure error
	if result != nil {
		failure = fmt.Errorf("%w: %v", apperrors.ErrAuthenticationFailed, result)
		if !errors.Is(result, errLogoutWon) {
			c.session.Clear()
			if c.onExpired != nil {
				c.onExpired()
			}
		}
	}

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- failure
	}
	return failure
}

type authPayload struct {
	AccessToken string       `json:"access_token"`
	User        session.User `json:"user"`
}

// runRefresh issues the one refresh call. The refresh credential travels in
// the cookie jar. The new session installs before any replay happens, and
// only if the generation captured here is still current: a logout that
// lands mid-refresh must not be resurrected.
func (c *Channel) runRefresh(ctx context.Context) error {
	_, gen := c.session.Current()

	var payload authPayload
	if err := c.dispatch(ctx, Request{Method: http.MethodPost, Path: "/auth/refresh", Public: true}, &payload); err != nil {
		return err
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("refresh returned empty credential")
	}
	if !c.session.InstallIfCurrent(session.Session{Token: payload.AccessToken, User: payload.User}, gen) {
		return errLogoutWon
	}
	return nil
}

// dispatch performs a single HTTP round trip with no retry behavior.
func (c *Channel) dispatch(ctx context.Context, req Request, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + req.Path
	if req.Query != nil {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if !req.Public {
		if cur, _ := c.session.Current(); cur.Authenticated() {
			httpReq.Header.Set("Authorization", "Bearer "+cur.Token)
		}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, decodeDetail(resp.Body))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func decodeDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	b, err := io.ReadAll(io.LimitReader(r, 8192))
	if err != nil {
		return ""
	}
	if json.Unmarshal(b, &payload) == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(b))
}
