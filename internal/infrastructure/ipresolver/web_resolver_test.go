package ipresolver

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lite-lake/tenten-ddns/internal/domain"
)

func echoServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// unreachableURL returns an address nothing listens on.
func unreachableURL(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()
	return "http://" + addr
}

func TestWebResolver_FirstSuccessWins(t *testing.T) {
	a := echoServer(t, http.StatusInternalServerError, "boom")
	b := echoServer(t, http.StatusOK, "203.0.113.7\n")
	c := unreachableURL(t)

	ip, err := NewWebResolver([]string{a.URL, b.URL, c}).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if ip != "203.0.113.7" {
		t.Errorf("Resolve() = %q, want 203.0.113.7", ip)
	}
}

func TestWebResolver_StopsAtFirstSuccess(t *testing.T) {
	var hits atomic.Int32
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		io.WriteString(w, "198.51.100.1")
	}))
	defer second.Close()
	first := echoServer(t, http.StatusOK, "  192.0.2.10  ")

	ip, err := NewWebResolver([]string{first.URL, second.URL}).Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ip != "192.0.2.10" {
		t.Errorf("Resolve() = %q", ip)
	}
	if hits.Load() != 0 {
		t.Errorf("second service called %d times, want 0", hits.Load())
	}
}

func TestWebResolver_SendsNoCache(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Cache-Control")
		io.WriteString(w, "192.0.2.1")
	}))
	defer srv.Close()

	if _, err := NewWebResolver([]string{srv.URL}).Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got != "no-cache" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestWebResolver_AllFail(t *testing.T) {
	tests := []struct {
		name     string
		services func(t *testing.T) []string
	}{
		{
			name: "bad status and unreachable",
			services: func(t *testing.T) []string {
				return []string{echoServer(t, http.StatusBadGateway, "").URL, unreachableURL(t)}
			},
		},
		{
			name: "garbage body",
			services: func(t *testing.T) []string {
				return []string{echoServer(t, http.StatusOK, "<html>hello</html>").URL}
			},
		},
		{
			name:     "no services",
			services: func(t *testing.T) []string { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWebResolver(tt.services(t)).Resolve(context.Background())
			if !errors.Is(err, domain.ErrIPResolveFailed) {
				t.Errorf("error = %v, want ErrIPResolveFailed", err)
			}
		})
	}
}

func TestWebResolver_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()
	fast := echoServer(t, http.StatusOK, "192.0.2.55")

	start := time.Now()
	ip, err := NewWebResolver([]string{slow.URL, fast.URL}, WithTimeout(50*time.Millisecond)).Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ip != "192.0.2.55" {
		t.Errorf("Resolve() = %q", ip)
	}
	if time.Since(start) > time.Second {
		t.Error("per-request timeout not applied")
	}
}

func TestStatic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"198.51.100.9", "198.51.100.9"},
		{"::ffff:192.0.2.1", "192.0.2.1"},
		{"2001:db8::1", "2001:db8::1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ip, err := Static(tt.in).Resolve(context.Background())
			if err != nil || ip != tt.want {
				t.Errorf("Resolve() = %q, %v, want %q", ip, err, tt.want)
			}
		})
	}
	if _, err := Static("not-an-ip").Resolve(context.Background()); !errors.Is(err, domain.ErrInvalidIP) {
		t.Errorf("error = %v, want ErrInvalidIP", err)
	}
}

func TestIsIPv4(t *testing.T) {
	tests := map[string]bool{
		"203.0.113.7":      true,
		"::ffff:192.0.2.1": true,
		"2001:db8::1":      false,
		"nope":             false,
	}
	for in, want := range tests {
		if got := IsIPv4(in); got != want {
			t.Errorf("IsIPv4(%q) = %v, want %v", in, got, want)
		}
	}
}
