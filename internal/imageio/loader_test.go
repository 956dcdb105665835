package imageio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPLoader(t *testing.T) {
	t.Run("fetches bytes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("PNGDATA"))
		}))
		defer server.Close()

		loader := NewHTTPLoader()
		data, err := loader.Load(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if string(data) != "PNGDATA" {
			t.Errorf("Load() = %q, want PNGDATA", data)
		}
	})

	t.Run("retries transient failures", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("OK"))
		}))
		defer server.Close()

		loader := NewHTTPLoader()
		loader.Delay = 0
		data, err := loader.Load(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if string(data) != "OK" {
			t.Errorf("Load() = %q, want OK", data)
		}
		if calls != 2 {
			t.Errorf("server calls = %d, want 2", calls)
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		loader := NewHTTPLoader()
		if _, err := loader.Load(context.Background(), ""); err == nil {
			t.Fatal("Load() expected error for empty URL")
		}
	})
}

func TestFileLoader(t *testing.T) {
	if _, err := (FileLoader{}).Load(context.Background(), ""); err == nil {
		t.Fatal("Load() expected error for empty path")
	}
	if _, err := (FileLoader{}).Load(context.Background(), "/nonexistent/image.png"); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}
