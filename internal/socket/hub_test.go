package socket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialTestConn upgrades a connection against an httptest server and hands the
// server-side *websocket.Conn back through the channel.
func dialTestConn(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { clientConn.Close() })

	select {
	case serverConn := <-serverConns:
		t.Cleanup(func() { serverConn.Close() })
		return serverConn, clientConn
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server connection")
		return nil, nil
	}
}

func TestSendToMissingClient(t *testing.T) {
	hub := NewHub()
	if err := hub.Send("EMP-404", []byte("hello")); err != nil {
		t.Errorf("Send to an offline client should be a no-op, got %v", err)
	}
}

func TestSendDeliversToRegisteredClient(t *testing.T) {
	serverConn, clientConn := dialTestConn(t)

	hub := NewHub()
	hub.Register("EMP-001", "doctor", serverConn)

	if err := hub.Send("EMP-001", []byte(`{"event":"LAB_RESULT_READY"}`)); err != nil {
		t.Fatalf("Send: %v", err)
	}

	clientConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := clientConn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if string(msg) != `{"event":"LAB_RESULT_READY"}` {
		t.Errorf("received %q", msg)
	}
}

func TestSendToRole(t *testing.T) {
	pharmacistConn, pharmacistClient := dialTestConn(t)
	nurseConn, nurseClient := dialTestConn(t)

	hub := NewHub()
	hub.Register("EMP-010", "pharmacist", pharmacistConn)
	hub.Register("EMP-011", "nurse", nurseConn)

	hub.SendToRole("pharmacist", []byte(`{"event":"URGENT_DISPENSE_REQUEST"}`))

	pharmacistClient.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := pharmacistClient.ReadMessage()
	if err != nil {
		t.Fatalf("pharmacist ReadMessage: %v", err)
	}
	if string(msg) != `{"event":"URGENT_DISPENSE_REQUEST"}` {
		t.Errorf("pharmacist received %q", msg)
	}

	// The nurse must not receive the pharmacist broadcast.
	nurseClient.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := nurseClient.ReadMessage(); err == nil {
		t.Error("nurse should not receive pharmacist-role messages")
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	serverConn, _ := dialTestConn(t)

	hub := NewHub()
	hub.Register("EMP-001", "doctor", serverConn)
	hub.Unregister("EMP-001")

	if err := hub.Send("EMP-001", []byte("hello")); err != nil {
		t.Errorf("Send after Unregister should be a no-op, got %v", err)
	}
}
