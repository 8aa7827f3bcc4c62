package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tempo/internal/platform/api"
	apperrors "tempo/internal/platform/errors"
	"tempo/internal/platform/session"
)

func writeAuthPayload(w http.ResponseWriter, token string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": token,
		"user":         map[string]any{"id": 1, "email": "ada@example.com", "name": "Ada", "profile": "student"},
	})
}

func newChannel(t *testing.T, serverURL string, holder *session.Holder, opts ...api.Option) *api.Channel {
	t.Helper()
	ch, err := api.NewChannel(serverURL, holder, opts...)
	if err != nil {
		t.Fatalf("new channel: %v", err)
	}
	return ch
}

func TestConcurrentExpiredCallsShareOneRefreshAndAllReplay(t *testing.T) {
	const callers = 8

	var refreshCalls, firstRejections int64
	allRejected := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		// Hold the refresh open until every caller has been rejected once,
		// so all of them are genuinely concurrent with it.
		select {
		case <-allRejected:
		case <-time.After(5 * time.Second):
			t.Error("refresh released before all callers were rejected")
		}
		writeAuthPayload(w, "fresh")
	})
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			if atomic.AddInt64(&firstRejections, 1) == callers {
				close(allRejected)
			}
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]any{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	holder := session.NewHolder()
	holder.Install(session.Session{Token: "stale"})
	ch := newChannel(t, srv.URL, holder)

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out []any
			errs[i] = ch.Do(context.Background(), api.Request{Method: http.MethodGet, Path: "/tasks/"}, &out)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if got := atomic.LoadInt64(&refreshCalls); got != 1 {
		t.Fatalf("refresh calls = %d, want 1", got)
	}
	cur, _ := holder.Current()
	if cur.Token != "fresh" {
		t.Fatalf("session token = %q, want %q", cur.Token, "fresh")
	}
}

func TestRefreshFailureRejectsEveryCallAndClearsSession(t *testing.T) {
	const callers = 4

	var expiredNotices int64
	allRejected := make(chan struct{})
	var firstRejections int64

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-allRejected:
		case <-time.After(5 * time.Second):
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&firstRejections, 1) == callers {
			close(allRejected)
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	holder := session.NewHolder()
	holder.Install(session.Session{Token: "stale"})
	ch := newChannel(t, srv.URL, holder, api.WithExpiredFunc(func() {
		atomic.AddInt64(&expiredNotices, 1)
	}))

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ch.Do(context.Background(), api.Request{Method: http.MethodGet, Path: "/tasks/"}, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, apperrors.ErrAuthenticationFailed) {
			t.Errorf("caller %d: err = %v, want ErrAuthenticationFailed", i, err)
		}
	}
	if cur, _ := holder.Current(); cur.Authenticated() {
		t.Fatal("session still holds a credential after failed refresh")
	}
	if got := atomic.LoadInt64(&expiredNotices); got != 1 {
		t.Fatalf("expired notifications = %d, want 1", got)
	}
}

func TestSecondRejectionOnReplayIsTerminal(t *testing.T) {
	var refreshCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		writeAuthPayload(w, "fresh")
	})
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	holder := session.NewHolder()
	holder.Install(session.Session{Token: "stale"})
	ch := newChannel(t, srv.URL, holder)

	err := ch.Do(context.Background(), api.Request{Method: http.MethodGet, Path: "/tasks/"}, nil)
	if !errors.Is(err, apperrors.ErrAuthenticationFailed) {
		t.Fatalf("err = %v, want ErrAuthenticationFailed", err)
	}
	if got := atomic.LoadInt64(&refreshCalls); got != 1 {
		t.Fatalf("refresh calls = %d, want exactly 1 (no retry loop)", got)
	}
}

func TestLogoutDuringRefreshIsNotResurrected(t *testing.T) {
	refreshStarted := make(chan struct{})
	releaseRefresh := make(chan struct{})
	var expiredNotices int64

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		close(refreshStarted)
		select {
		case <-releaseRefresh:
		case <-time.After(5 * time.Second):
		}
		writeAuthPayload(w, "fresh")
	})
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	holder := session.NewHolder()
	holder.Install(session.Session{Token: "stale"})
	ch := newChannel(t, srv.URL, holder, api.WithExpiredFunc(func() {
		atomic.AddInt64(&expiredNotices, 1)
	}))

	done := make(chan error, 1)
	go func() {
		done <- ch.Do(context.Background(), api.Request{Method: http.MethodGet, Path: "/tasks/"}, nil)
	}()

	<-refreshStarted
	holder.Clear() // logout while the refresh is in flight
	close(releaseRefresh)

	err := <-done
	if !errors.Is(err, apperrors.ErrAuthenticationFailed) {
		t.Fatalf("err = %v, want ErrAuthenticationFailed", err)
	}
	if cur, _ := holder.Current(); cur.Authenticated() {
		t.Fatal("logout was overwritten by a late refresh result")
	}
	if got := atomic.LoadInt64(&expiredNotices); got != 0 {
		t.Fatalf("expired notifications = %d, want 0 after deliberate logout", got)
	}
}

func TestPublicRequestRejectionDoesNotTriggerRefresh(t *testing.T) {
	var refreshCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ch := newChannel(t, srv.URL, session.NewHolder())
	err := ch.Do(context.Background(), api.Request{Method: http.MethodPost, Path: "/auth/login", Public: true}, nil)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if api.Detail(err) != "Invalid credentials" {
		t.Fatalf("detail = %q", api.Detail(err))
	}
	if atomic.LoadInt64(&refreshCalls) != 0 {
		t.Fatal("public 401 must not start a refresh")
	}
}

func TestStatusMapping(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/planning/plan", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	holder := session.NewHolder()
	holder.Install(session.Session{Token: "tok"})
	ch := newChannel(t, srv.URL, holder)

	err := ch.Do(context.Background(), api.Request{Method: http.MethodGet, Path: "/planning/plan"}, nil)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("404 err = %v, want ErrNotFound", err)
	}
	if api.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("status = %d", api.StatusOf(err))
	}
}

func TestUnreachableServerIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ch := newChannel(t, url, session.NewHolder())
	err := ch.Do(context.Background(), api.Request{Method: http.MethodGet, Path: "/tasks/"}, nil)
	if !errors.Is(err, apperrors.ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}
