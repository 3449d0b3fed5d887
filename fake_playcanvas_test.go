package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const testToken = "test-token"

// fakePlayCanvas serves the job endpoints, replaying statuses in order.
type fakePlayCanvas struct {
	statuses    []string
	downloadUrl string
	jobBody     string

	requests atomic.Int32
	creates  atomic.Int32
	queries  atomic.Int32

	mu          sync.Mutex
	createBody  map[string]interface{}
	authHeaders []string
}

func newFakePlayCanvas(t *testing.T, downloadUrl string, statuses ...string) (*fakePlayCanvas, *httptest.Server) {
	f := &fakePlayCanvas{statuses: statuses, downloadUrl: downloadUrl}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakePlayCanvas) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	f.mu.Lock()
	f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
	f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+testToken {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/apps/download":
		f.creates.Add(1)
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.createBody = body
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 42, "status": "running"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/jobs/42":
		n := int(f.queries.Add(1))
		if f.jobBody != "" {
			_, _ = w.Write([]byte(f.jobBody))
			return
		}
		status := f.statuses[len(f.statuses)-1]
		if n <= len(f.statuses) {
			status = f.statuses[n-1]
		}
		res := map[string]interface{}{"id": 42, "status": status, "data": map[string]string{}}
		if status == string(statusComplete) {
			res["data"] = map[string]string{"download_url": f.downloadUrl}
		}
		_ = json.NewEncoder(w).Encode(res)
	default:
		http.NotFound(w, r)
	}
}

type sleepRecorder struct {
	sleeps []time.Duration
	err    error
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.sleeps = append(r.sleeps, d)
	return r.err
}

func (r *sleepRecorder) policy() pollPolicy {
	return pollPolicy{Interval: defaultPollInterval, MaxAttempts: defaultMaxAttempts, sleep: r.sleep}
}

// hostRewriter sends requests for one host to a test server instead.
type hostRewriter struct {
	host   string
	target *url.URL
}

func (h hostRewriter) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Host == h.host {
		req = req.Clone(req.Context())
		req.URL.Scheme = h.target.Scheme
		req.URL.Host = h.target.Host
		req.Host = h.target.Host
	}
	return http.DefaultTransport.RoundTrip(req)
}

func rewritingClient(t *testing.T, host string, srv *httptest.Server) *http.Client {
	target, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Transport: hostRewriter{host: host, target: target}}
}
