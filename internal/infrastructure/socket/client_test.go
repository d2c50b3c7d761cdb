package socket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// echoServer upgrades incoming requests and echoes every text frame back.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			mt, payload, err := ws.ReadMessage()
			if err != nil {
				return
			}
			if err := ws.WriteMessage(mt, payload); err != nil {
				return
			}
		}
	}))
}

// wsURL converts an httptest server URL to a ws:// URL.
func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDial_FrameRoundTrip(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	ctx := context.Background()
	conn, err := Dial(ctx, wsURL(srv), Options{})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	want := `{"type":"auth","access_token":"secret"}`
	if err := conn.WriteFrame(ctx, []byte(want)); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}

	got, err := conn.ReadFrame(ctx)
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if string(got) != want {
		t.Errorf("ReadFrame() = %q, want %q", got, want)
	}
}

func TestDial_Refused(t *testing.T) {
	// Port 1 is essentially guaranteed closed.
	_, err := Dial(context.Background(), "ws://127.0.0.1:1/api/websocket", Options{
		HandshakeTimeout: 500 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("Dial() expected error for refused connection")
	}
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Dial() error = %v, want ErrConnectionFailed", err)
	}
}

func TestReadFrame_ContextCancel(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	conn, err := Dial(context.Background(), wsURL(srv), Options{})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	// Nothing is sent, so the read blocks until cancellation.
	_, err = conn.ReadFrame(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ReadFrame() error = %v, want context.Canceled", err)
	}
}

func TestReadFrame_RemoteClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws.Close()
	}))
	defer srv.Close()

	conn, err := Dial(context.Background(), wsURL(srv), Options{})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	_, err = conn.ReadFrame(context.Background())
	if !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("ReadFrame() error = %v, want ErrConnectionClosed", err)
	}
}

func TestWriteFrame_AfterClose(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	conn, err := Dial(context.Background(), wsURL(srv), Options{})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// Idempotent.
	if err := conn.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	err = conn.WriteFrame(context.Background(), []byte(`{}`))
	if !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("WriteFrame() after close = %v, want ErrConnectionClosed", err)
	}
}
