package line

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchMessageContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/bot/message/m123/content" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(nil, srv.URL, "test-token")
	data, contentType, err := client.FetchMessageContent(context.Background(), "m123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("data = %q", string(data))
	}
	if contentType != "image/jpeg" {
		t.Fatalf("content type = %q", contentType)
	}
}

func TestFetchMessageContentNonSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(nil, srv.URL, "test-token")
	_, _, err := client.FetchMessageContent(context.Background(), "missing")
	if !errors.Is(err, ErrImageFetchFailed) {
		t.Fatalf("error = %v, want ErrImageFetchFailed", err)
	}
}

func TestFetchMessageContentNoToken(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	client := NewClient(nil, srv.URL, "")
	_, _, err := client.FetchMessageContent(context.Background(), "m1")
	if !errors.Is(err, ErrImageFetchFailed) {
		t.Fatalf("error = %v, want ErrImageFetchFailed", err)
	}
	if called {
		t.Fatal("request should not be sent without a token")
	}
}
