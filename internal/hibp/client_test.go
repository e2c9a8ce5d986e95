package hibp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// passwordSuffix is the SHA-1 suffix of "password" after the 5-character
// prefix 5BAA6.
const passwordSuffix = "1E4C9B93F3F0682250B6CF8331B7EE68FD8"

func TestClientCheck(t *testing.T) {
	t.Parallel()

	t.Run("matching suffix returns its count", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(
				"0018A45C4D1DEF81644B54AB7F969B88D65:1\r\n" +
					passwordSuffix + ":9545824\r\n" +
					"011053FD0102E94D6AE2F8B83D76FAF94F6:1\r\n"))
		}))
		defer srv.Close()

		c := NewClient(srv.Client(), WithEndpoint(srv.URL))
		if got := c.Check(context.Background(), "password", NewCache()); got != 9545824 {
			t.Errorf("Check() = %d, want 9545824", got)
		}
	})

	t.Run("only the hash prefix is transmitted", func(t *testing.T) {
		t.Parallel()
		var path atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path.Store(r.URL.Path)
			_, _ = w.Write([]byte(passwordSuffix + ":42\n"))
		}))
		defer srv.Close()

		c := NewClient(srv.Client(), WithEndpoint(srv.URL))
		c.Check(context.Background(), "password", NewCache())

		if got := path.Load(); got != "/5BAA6" {
			t.Errorf("request path = %v, want /5BAA6", got)
		}
	})

	t.Run("no matching suffix yields zero", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("0018A45C4D1DEF81644B54AB7F969B88D65:1\n"))
		}))
		defer srv.Close()

		c := NewClient(srv.Client(), WithEndpoint(srv.URL))
		if got := c.Check(context.Background(), "password", NewCache()); got != 0 {
			t.Errorf("Check() = %d, want 0", got)
		}
	})

	t.Run("non-2xx status yields CountUnknown", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.Client(), WithEndpoint(srv.URL))
		if got := c.Check(context.Background(), "password", NewCache()); got != CountUnknown {
			t.Errorf("Check() = %d, want %d", got, CountUnknown)
		}
	})

	t.Run("timeout yields CountUnknown never zero", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(500 * time.Millisecond)
			_, _ = w.Write([]byte(passwordSuffix + ":42\n"))
		}))
		defer srv.Close()

		c := NewClient(srv.Client(), WithEndpoint(srv.URL), WithTimeout(20*time.Millisecond))
		if got := c.Check(context.Background(), "password", NewCache()); got != CountUnknown {
			t.Errorf("Check() = %d, want %d", got, CountUnknown)
		}
	})

	t.Run("transport error yields CountUnknown", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		endpoint := srv.URL
		srv.Close()

		c := NewClient(&http.Client{}, WithEndpoint(endpoint))
		if got := c.Check(context.Background(), "password", NewCache()); got != CountUnknown {
			t.Errorf("Check() = %d, want %d", got, CountUnknown)
		}
	})
}

func TestClientCheckCaching(t *testing.T) {
	t.Parallel()

	t.Run("repeated checks hit the endpoint once", func(t *testing.T) {
		t.Parallel()
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			requests.Add(1)
			_, _ = w.Write([]byte(passwordSuffix + ":42\n"))
		}))
		defer srv.Close()

		c := NewClient(srv.Client(), WithEndpoint(srv.URL))
		cache := NewCache()
		for range 5 {
			if got := c.Check(context.Background(), "password", cache); got != 42 {
				t.Fatalf("Check() = %d, want 42", got)
			}
		}
		if got := requests.Load(); got != 1 {
			t.Errorf("endpoint hit %d times, want 1", got)
		}
	})

	t.Run("failures are cached within a run", func(t *testing.T) {
		t.Parallel()
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			requests.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewClient(srv.Client(), WithEndpoint(srv.URL))
		cache := NewCache()
		for range 3 {
			if got := c.Check(context.Background(), "password", cache); got != CountUnknown {
				t.Fatalf("Check() = %d, want %d", got, CountUnknown)
			}
		}
		if got := requests.Load(); got != 1 {
			t.Errorf("endpoint hit %d times, want 1", got)
		}
	})

	t.Run("a fresh cache retries a previously failed password", func(t *testing.T) {
		t.Parallel()
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if requests.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(passwordSuffix + ":7\n"))
		}))
		defer srv.Close()

		c := NewClient(srv.Client(), WithEndpoint(srv.URL))
		if got := c.Check(context.Background(), "password", NewCache()); got != CountUnknown {
			t.Fatalf("first run Check() = %d, want %d", got, CountUnknown)
		}
		if got := c.Check(context.Background(), "password", NewCache()); got != 7 {
			t.Errorf("second run Check() = %d, want 7", got)
		}
	})
}

func TestMatchSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		suffix string
		want   int
	}{
		{
			name:   "exact match",
			body:   "AAAA:1\nBBBB:2\nCCCC:3\n",
			suffix: "BBBB",
			want:   2,
		},
		{
			name:   "case-insensitive match",
			body:   "bbbb:2\n",
			suffix: "BBBB",
			want:   2,
		},
		{
			name:   "no match",
			body:   "AAAA:1\n",
			suffix: "BBBB",
			want:   0,
		},
		{
			name:   "empty body",
			body:   "",
			suffix: "BBBB",
			want:   0,
		},
		{
			name:   "malformed lines skipped",
			body:   "garbage\nBBBB\nBBBB:not-a-number\nBBBB:5\n",
			suffix: "BBBB",
			want:   5,
		},
		{
			name:   "crlf line endings",
			body:   "AAAA:1\r\nBBBB:9\r\n",
			suffix: "BBBB",
			want:   9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := matchSuffix(tt.body, tt.suffix); got != tt.want {
				t.Errorf("matchSuffix() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCache(t *testing.T) {
	t.Parallel()

	cache := NewCache()
	if _, ok := cache.Get("x"); ok {
		t.Error("expected miss on empty cache")
	}

	cache.Put("x", 3)
	cache.Put("y", CountUnknown)

	if got, ok := cache.Get("x"); !ok || got != 3 {
		t.Errorf("Get(x) = %d,%v, want 3,true", got, ok)
	}
	if got, ok := cache.Get("y"); !ok || got != CountUnknown {
		t.Errorf("Get(y) = %d,%v, want %d,true", got, ok, CountUnknown)
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}
