package transport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/snapshot"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/telemetry"
)

// Updater owns one push-channel connection and the transport credentials,
// and reconnects with exponential backoff after a connection is lost.
// maxReconnect bounds how many consecutive reconnect attempts it makes
// before giving up for good; zero means unlimited.
type Updater struct {
	fetcher      *Fetcher
	creds        Credentials
	ctx          Context
	store        *snapshot.Store
	maxReconnect uint
	done         chan struct{}
}

// NewUpdater builds an updater bound to store. Run must be called to start
// the background loop; Stop tears it down cooperatively.
func NewUpdater(fetcher *Fetcher, creds Credentials, appCtx Context, store *snapshot.Store, maxReconnectAttempts uint) *Updater {
	return &Updater{
		fetcher:      fetcher,
		creds:        creds,
		ctx:          appCtx,
		store:        store,
		maxReconnect: maxReconnectAttempts,
		done:         make(chan struct{}),
	}
}

// Stop closes the shutdown signal. It does not block for the loop to
// actually exit: shutdown is cooperative, checked between messages.
func (u *Updater) Stop() {
	select {
	case <-u.done:
	default:
		close(u.done)
	}
}

// Run owns one push-channel connection at a time and reconnects with
// exponential backoff on loss, rather than stopping permanently on the
// first connection failure.
func (u *Updater) Run(ctx context.Context) {
	attempts := uint(0)
	b := backoff.NewExponentialBackOff()

	for {
		select {
		case <-u.done:
			log.Printf("[appconfiguration] updater stopped: shutdown requested")
			return
		default:
		}

		conn, err := u.dial(ctx)
		if err != nil {
			telemetry.RefreshErrors.WithLabelValues("dial").Inc()
			attempts++
			if u.maxReconnect != 0 && attempts > u.maxReconnect {
				log.Printf("[appconfiguration] updater terminated: giving up after %d reconnect attempts: %v", attempts-1, err)
				return
			}
			wait := b.NextBackOff()
			if wait == backoff.Stop {
				log.Printf("[appconfiguration] updater terminated: backoff exhausted: %v", err)
				return
			}
			log.Printf("[appconfiguration] push channel dial failed, reconnecting in %s: %v", wait, err)
			if !u.sleepOrDone(wait) {
				return
			}
			continue
		}

		attempts = 0
		b.Reset()
		log.Printf("[appconfiguration] push channel connected")

		// A new connection could have missed a change, so refetch once on
		// every (re)connect, not just on the first.
		if cat, err := u.fetcher.FetchCatalog(ctx); err == nil {
			u.store.Install(cat, time.Now())
		} else {
			log.Printf("[appconfiguration] post-reconnect catalog fetch failed: %v", err)
		}

		err = u.watch(ctx, conn)
		conn.Close()

		if err == nil {
			// u.done closed mid-watch; loop will exit on the next check.
			continue
		}
		telemetry.RefreshErrors.WithLabelValues("push_channel").Inc()

		attempts++
		if u.maxReconnect != 0 && attempts > u.maxReconnect {
			log.Printf("[appconfiguration] updater terminated: giving up after %d reconnect attempts: %v", attempts-1, err)
			return
		}
		wait := b.NextBackOff()
		if wait == backoff.Stop {
			log.Printf("[appconfiguration] updater terminated: backoff exhausted: %v", err)
			return
		}
		log.Printf("[appconfiguration] push channel lost, reconnecting in %s: %v", wait, err)
		if !u.sleepOrDone(wait) {
			return
		}
	}
}

// sleepOrDone waits for d, returning false early (and without having
// slept the full duration) if shutdown was requested.
func (u *Updater) sleepOrDone(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-u.done:
		return false
	}
}

func (u *Updater) dial(ctx context.Context) (*websocket.Conn, error) {
	accessToken, err := u.fetcher.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	wsURL, err := url.Parse(websocketURL(u.creds.Region))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing websocket url: %v", apperr.ErrTransport, err)
	}
	q := wsURL.Query()
	q.Set("instance_id", u.creds.GUID)
	q.Set("collection_id", u.ctx.CollectionID)
	q.Set("environment_id", u.ctx.EnvironmentID)
	wsURL.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("User-Agent", userAgent)
	header.Set("Authorization", "Bearer "+accessToken)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), header)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing push channel: %v", apperr.ErrTransport, err)
	}
	return conn, nil
}

// watch blocks reading messages, ignores the keep-alive literal,
// refetches and installs the catalog on anything else, and returns nil
// (not an error) if shutdown was requested meanwhile.
func (u *Updater) watch(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-u.done:
			return nil
		default:
		}

		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errors.New("connection closed by the server")
			}
			return fmt.Errorf("%w: %v", apperr.ErrTransport, err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if string(payload) == keepAlive {
			continue
		}

		cat, err := u.fetcher.FetchCatalog(ctx)
		if err != nil {
			return err
		}
		u.store.Install(cat, time.Now())
	}
}
