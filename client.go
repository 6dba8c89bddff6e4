package appconfiguration

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/snapshot"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/telemetry"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/transport"
)

// Credentials are how to reach the service: an API key and the region
// and instance (guid) the App Configuration service instance lives
// under.
type Credentials struct {
	APIKey string
	Region string
	GUID   string
}

// Context is what to pull once connected: the environment/collection
// pair this client pins itself to for its entire lifetime.
type Context struct {
	EnvironmentID string
	CollectionID  string
}

// Options configures a new Client. MaxReconnectAttempts bounds how many
// consecutive push-channel reconnect attempts the background updater
// makes before giving up for good; zero means unlimited.
type Options struct {
	Credentials          Credentials
	Context              Context
	MaxReconnectAttempts uint
}

// Client pins itself to one (environment, collection) pair for its
// lifetime. It pulls the catalog once at construction and keeps it
// updated in the background until Close is called.
type Client struct {
	store   *snapshot.Store
	updater *transport.Updater
	cancel  context.CancelFunc
}

// New connects to the configuration service, pulls the initial catalog,
// and starts the background update loop. The returned Client is ready to
// serve queries immediately; Close must be called to release the
// background task.
func New(ctx context.Context, opts Options) (*Client, error) {
	creds := transport.Credentials{APIKey: opts.Credentials.APIKey, Region: opts.Credentials.Region, GUID: opts.Credentials.GUID}
	tctx := transport.Context{EnvironmentID: opts.Context.EnvironmentID, CollectionID: opts.Context.CollectionID}

	fetcher, err := transport.NewFetcher(ctx, creds, tctx)
	if err != nil {
		return nil, err
	}

	cat, err := fetcher.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	store := snapshot.NewStore()
	store.Install(cat, time.Now())

	updater := transport.NewUpdater(fetcher, creds, tctx, store, opts.MaxReconnectAttempts)
	updaterCtx, cancel := context.WithCancel(context.Background())
	go updater.Run(updaterCtx)

	return &Client{store: store, updater: updater, cancel: cancel}, nil
}

// Close signals the background updater to stop. Shutdown is cooperative:
// an in-flight fetch runs to completion or fails on its own, and the
// client's cached catalog remains usable (but frozen) after Close
// returns.
func (c *Client) Close() {
	c.updater.Stop()
	c.cancel()
}

// FeatureIDs returns the unordered set of feature ids in the current
// catalog.
func (c *Client) FeatureIDs() ([]string, error) {
	return c.store.FeatureIDs()
}

// PropertyIDs returns the unordered set of property ids in the current
// catalog.
func (c *Client) PropertyIDs() ([]string, error) {
	return c.store.PropertyIDs()
}

// Feature returns a frozen snapshot view of featureID.
func (c *Client) Feature(featureID string) (FeatureSnapshot, error) {
	cat, err := c.store.Read()
	if err != nil {
		return FeatureSnapshot{}, err
	}
	inner, err := snapshot.NewFeatureSnapshot(cat, featureID)
	if err != nil {
		return FeatureSnapshot{}, err
	}
	return FeatureSnapshot{inner: inner}, nil
}

// FeatureProxy returns a live view of featureID that re-reads the
// snapshot store on every call.
func (c *Client) FeatureProxy(featureID string) FeatureProxy {
	return FeatureProxy{inner: snapshot.NewFeatureProxy(c.store, featureID)}
}

// Property returns a frozen snapshot view of propertyID.
func (c *Client) Property(propertyID string) (PropertySnapshot, error) {
	cat, err := c.store.Read()
	if err != nil {
		return PropertySnapshot{}, err
	}
	inner, err := snapshot.NewPropertySnapshot(cat, propertyID)
	if err != nil {
		return PropertySnapshot{}, err
	}
	return PropertySnapshot{inner: inner}, nil
}

// PropertyProxy returns a live view of propertyID that re-reads the
// snapshot store on every call.
func (c *Client) PropertyProxy(propertyID string) PropertyProxy {
	return PropertyProxy{inner: snapshot.NewPropertyProxy(c.store, propertyID)}
}

// RegisterMetrics registers the SDK's catalog-install, refresh-error and
// evaluation-error counters (package-level, shared by every Client in the
// process) and this client's snapshot-age gauge on reg. It is opt-in rather
// than automatic at construction time, since a process embedding more
// than one Client would otherwise hit a duplicate-registration panic on
// the shared default registry.
func (c *Client) RegisterMetrics(reg *prometheus.Registry) {
	telemetry.MustRegisterOn(reg, telemetry.NewSnapshotAgeCollector(c.store.InstalledAt))
}

// RegisterDefaultMetrics is RegisterMetrics for callers content with the
// global default Prometheus registry (promhttp.Handler's registry).
// Panics if called more than once per process, or alongside
// RegisterMetrics on the same registry.
func (c *Client) RegisterDefaultMetrics() {
	telemetry.Init(telemetry.NewSnapshotAgeCollector(c.store.InstalledAt))
}

// SnapshotAge reports how long ago the currently installed catalog was
// pulled. It returns ErrSnapshotUnavailable if no catalog has been
// installed yet, which cannot happen on a Client returned by New.
func (c *Client) SnapshotAge() (time.Duration, error) {
	at, ok := c.store.InstalledAt()
	if !ok {
		return 0, apperr.ErrSnapshotUnavailable
	}
	return time.Since(at), nil
}
