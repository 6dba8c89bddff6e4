package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/snapshot"
)

var upgrader = websocket.Upgrader{}

// wsTestServer relays whatever is written to send onto every connection
// it accepts, letting a test drive the push-channel message stream.
func wsTestServer(t *testing.T) (*httptest.Server, chan string) {
	t.Helper()
	send := make(chan string, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for msg := range send {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
	}))
	return srv, send
}

func TestUpdater_KeepAliveIgnoredThenRefetchOnChange(t *testing.T) {
	var catalogFetches atomic.Int32
	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		catalogFetches.Add(1)
		w.Write([]byte(sampleDocument))
	}))
	defer catalogSrv.Close()

	wsSrv, send := wsTestServer(t)
	defer wsSrv.Close()

	store := snapshot.NewStore()
	f := newFetcherForTest(t, catalogSrv.URL)
	u := &Updater{
		fetcher:      f,
		creds:        Credentials{Region: "us-south", GUID: "guid"},
		ctx:          Context{EnvironmentID: "dev", CollectionID: "coll"},
		store:        store,
		maxReconnect: 1,
		done:         make(chan struct{}),
	}

	wsURL := "ws" + strings.TrimPrefix(wsSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial test server: %v", err)
	}
	defer conn.Close()

	watchErr := make(chan error, 1)
	go func() { watchErr <- u.watch(context.Background(), conn) }()

	send <- keepAlive
	send <- "catalog-changed"

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := store.Read(); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected catalog to be installed after refetch signal")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Unblock the goroutine's in-flight ReadMessage by closing the server side.
	close(send)
	<-watchErr

	if got := catalogFetches.Load(); got != 1 {
		t.Fatalf("expected exactly one catalog fetch (keep-alive ignored), got %d", got)
	}
}

func TestUpdater_ShutdownStopsWatchCleanly(t *testing.T) {
	wsSrv, send := wsTestServer(t)
	defer wsSrv.Close()
	defer close(send)

	store := snapshot.NewStore()
	u := &Updater{
		store: store,
		done:  make(chan struct{}),
	}

	wsURL := "ws" + strings.TrimPrefix(wsSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial test server: %v", err)
	}
	defer conn.Close()

	u.Stop()
	if err := u.watch(context.Background(), conn); err != nil {
		t.Fatalf("expected clean nil return on shutdown, got %v", err)
	}
}
