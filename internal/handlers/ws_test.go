package handlers_test

import (
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/campfire-dev/campfire/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func newHubServer(t *testing.T, hub *handlers.Hub) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/:project_id", hub.Serve)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server
}

func dialHub(t *testing.T, server *httptest.Server, projectID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + projectID

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}

	return conn
}

func TestHubBroadcastReachesSubscribers(t *testing.T) {
	hub := handlers.NewHub(nil)
	server := newHubServer(t, hub)

	conn := dialHub(t, server, "7")
	defer conn.Close()

	// The first frame confirms registration; after it, broadcasts land.
	var hello map[string]interface{}
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read connected event: %v", err)
	}
	if hello["type"] != "connected" {
		t.Fatalf("first event type = %v, want connected", hello["type"])
	}

	hub.Broadcast(7, "member_joined", "Ana joined the project")

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}

	var event map[string]interface{}
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if event["type"] != "member_joined" {
		t.Errorf("type = %v, want member_joined", event["type"])
	}
	if event["project_id"] != float64(7) {
		t.Errorf("project_id = %v, want 7", event["project_id"])
	}
}

func TestHubBroadcastSkipsOtherProjects(t *testing.T) {
	hub := handlers.NewHub(nil)
	server := newHubServer(t, hub)

	conn := dialHub(t, server, "1")
	defer conn.Close()

	var hello map[string]interface{}
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read connected event: %v", err)
	}

	hub.Broadcast(2, "member_joined", "wrong room")

	if err := conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("received an event for a project this client never joined")
	}
}

func TestServeStopsPingLoopAfterDisconnect(t *testing.T) {
	hub := handlers.NewHub(nil)
	server := newHubServer(t, hub)

	before := runtime.NumGoroutine()

	conn := dialHub(t, server, "3")

	var hello map[string]interface{}
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read connected event: %v", err)
	}

	conn.Close()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("goroutines after disconnect = %d, want at most %d", runtime.NumGoroutine(), before)
}
