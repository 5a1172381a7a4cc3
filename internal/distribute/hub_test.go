package distribute

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/linedeck/linedeck/internal/content"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil, "")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.ServeWS(w, r)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d (now %d)", want, h.ClientCount())
}

func TestHubDeliversNewContentEnvelope(t *testing.T) {
	t.Parallel()

	h := startHub(t)
	conn := dialHub(t, h)
	waitForClients(t, h, 1)

	item := content.NewTextItem("raw", "story", false)
	h.Notify(item)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Type != "newContent" {
		t.Fatalf("envelope type = %q, want %q", env.Type, "newContent")
	}
	if env.Item.ID != item.ID {
		t.Fatalf("envelope item id = %q, want %q", env.Item.ID, item.ID)
	}
	if env.Item.ProcessedContent.Text != "story" {
		t.Fatalf("processed content = %q", env.Item.ProcessedContent.Text)
	}
}

func TestHubFansOutToAllClients(t *testing.T) {
	t.Parallel()

	h := startHub(t)
	a := dialHub(t, h)
	b := dialHub(t, h)
	waitForClients(t, h, 2)

	h.Notify(content.NewTextItem("x", "x", false))

	for _, conn := range []*websocket.Conn{a, b} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Fatalf("client did not receive broadcast: %v", err)
		}
	}
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	t.Parallel()

	h := startHub(t)
	conn := dialHub(t, h)
	waitForClients(t, h, 1)

	_ = conn.Close()
	waitForClients(t, h, 0)
}

func TestHubRejectsDisallowedOrigin(t *testing.T) {
	t.Parallel()

	h := NewHub(nil, "https://dashboard.example.com")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.ServeWS(w, r)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		_ = conn.Close()
		t.Fatal("dial succeeded from disallowed origin")
	}
	if resp != nil && resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}

func TestHubShutdownReleasesClients(t *testing.T) {
	t.Parallel()

	h := NewHub(nil, "")
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.ServeWS(w, r)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	waitForClients(t, h, 1)

	cancel()

	// The server must close the connection instead of stranding the
	// client's goroutines on the stopped run loop.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("connection still open after hub shutdown")
	}
	if h.ClientCount() != 0 {
		t.Fatalf("client count = %d after shutdown", h.ClientCount())
	}

	// Connections arriving after shutdown are closed, not registered.
	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Cleanup(func() {
			_ = late.Close()
		})
		_ = late.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := late.ReadMessage(); err == nil {
			t.Fatal("post-shutdown connection was not closed")
		}
	}
	if h.ClientCount() != 0 {
		t.Fatalf("client count = %d after post-shutdown dial", h.ClientCount())
	}
}

func TestHubNotifyWithoutClientsDoesNotBlock(t *testing.T) {
	t.Parallel()

	h := NewHub(nil, "")
	// No Run loop and no clients: Notify must still return promptly even
	// once the broadcast buffer fills.
	for i := 0; i < 300; i++ {
		h.Notify(content.NewTextItem("x", "x", false))
	}
}
