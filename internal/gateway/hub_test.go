package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"econdash/internal/dashboard"
)

func dialTestHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestHub_BroadcastReachesClient(t *testing.T) {
	hub := NewHub(nil, nil)
	conn, done := dialTestHub(t, hub)
	defer done()

	waitForClients(t, hub, 1)
	hub.Broadcast(dashboard.View{Country: "US", Status: "Updated"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var env struct {
		Type string         `json:"type"`
		View dashboard.View `json:"view"`
		Seq  int64          `json:"seq"`
	}
	if err := json.Unmarshal(msg, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Type != "view" || env.View.Country != "US" || env.Seq != 1 {
		t.Errorf("envelope = %+v", env)
	}
}

func TestHub_NewClientGetsLatestView(t *testing.T) {
	hub := NewHub(nil, nil)
	hub.Broadcast(dashboard.View{Country: "FR"})

	conn, done := dialTestHub(t, hub)
	defer done()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var env struct {
		View dashboard.View `json:"view"`
	}
	if err := json.Unmarshal(msg, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.View.Country != "FR" {
		t.Errorf("replayed view = %+v", env.View)
	}
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() < n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", hub.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
