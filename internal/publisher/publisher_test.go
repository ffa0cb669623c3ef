package publisher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tbpush/tbpush/internal/config"
)

func TestPublish_Success(t *testing.T) {
	var gotBody string
	var gotPath string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, "tok123")
	res := c.Publish(context.Background(), []byte(`{"temperature":21.5}`))

	if !res.OK {
		t.Fatalf("Publish not OK: %+v", res)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("status: got %d", res.StatusCode)
	}
	if gotPath != "/api/v1/tok123/telemetry" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotBody != `{"temperature":21.5}` {
		t.Errorf("body: got %s", gotBody)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type: got %q", gotContentType)
	}
}

func TestPublish_TrailingSlashServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "//") {
			t.Errorf("double slash in path: %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL+"/", "tok")
	if res := c.Publish(context.Background(), []byte(`{}`)); !res.OK {
		t.Errorf("Publish not OK: %+v", res)
	}
}

func TestPublish_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, "invalid token"},
		{"server error", http.StatusInternalServerError, ""},
		{"redirect-range", http.StatusNotModified, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			res := newClient(t, srv.URL, "tok").Publish(context.Background(), []byte(`{}`))
			if res.OK {
				t.Fatalf("status %d must not be OK", tc.status)
			}
			if res.StatusCode != tc.status {
				t.Errorf("status: got %d, want %d", res.StatusCode, tc.status)
			}
			if !strings.Contains(res.Detail, "HTTP") {
				t.Errorf("detail should name the status: %q", res.Detail)
			}
			if tc.body != "" && !strings.Contains(res.Detail, tc.body) {
				t.Errorf("detail should carry the response body: %q", res.Detail)
			}
		})
	}
}

func TestPublish_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	res := newClient(t, srv.URL, "tok").Publish(context.Background(), []byte(`{}`))
	if res.OK {
		t.Fatal("transport error must not be OK")
	}
	if res.StatusCode != 0 {
		t.Errorf("transport error status: got %d, want 0", res.StatusCode)
	}
	if res.Detail == "" {
		t.Error("transport error should carry detail text")
	}
}

func TestPublish_TimeoutIsFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(config.Endpoint{Server: srv.URL, DeviceToken: "tok", Timeout: 50 * time.Millisecond})
	start := time.Now()
	res := c.Publish(context.Background(), []byte(`{}`))
	if res.OK {
		t.Fatal("timed-out publish must not be OK")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v, should be bounded by the client timeout", elapsed)
	}
}

func newClient(t *testing.T, server, token string) *Client {
	t.Helper()
	return New(config.Endpoint{Server: server, DeviceToken: token, Timeout: 5 * time.Second})
}
