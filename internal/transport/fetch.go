package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/catalog"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/telemetry"
)

// Fetcher pulls and rebuilds the catalog document. Its access token is
// refreshed proactively by AccessToken once past its renewal deadline, and
// reactively by FetchCatalog on a 401; FetchCatalog itself sends the
// stored token without checking the deadline.
type Fetcher struct {
	httpClient *http.Client
	creds      Credentials
	ctx        Context
	tok        token

	// catalogURL overrides the computed base URL; set only by tests.
	catalogURL string
}

// NewFetcher exchanges initial credentials for an access token and
// returns a Fetcher ready to pull the catalog.
func NewFetcher(ctx context.Context, creds Credentials, appCtx Context) (*Fetcher, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	tok, err := fetchToken(ctx, httpClient, creds.APIKey)
	if err != nil {
		return nil, err
	}
	return &Fetcher{httpClient: httpClient, creds: creds, ctx: appCtx, tok: tok}, nil
}

// AccessToken returns the current access token value, refreshing it first
// if it is due (or past due) for proactive renewal.
func (f *Fetcher) AccessToken(ctx context.Context) (string, error) {
	if f.tok.needsRefresh(time.Now()) {
		tok, err := fetchToken(ctx, f.httpClient, f.creds.APIKey)
		if err != nil {
			return "", err
		}
		f.tok = tok
	}
	return f.tok.value, nil
}

// FetchCatalog pulls the catalog document and builds a validated Catalog
// for this Fetcher's (environment, collection). On a 401 it refreshes the
// access token once and retries the fetch, per the reactive-refresh policy.
func (f *Fetcher) FetchCatalog(ctx context.Context) (cat *catalog.Catalog, err error) {
	defer func() {
		if err != nil {
			telemetry.RefreshErrors.WithLabelValues("fetch").Inc()
		}
	}()

	body, status, err := f.doFetch(ctx, f.tok.value)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		tok, terr := fetchToken(ctx, f.httpClient, f.creds.APIKey)
		if terr != nil {
			return nil, terr
		}
		f.tok = tok
		body, status, err = f.doFetch(ctx, f.tok.value)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: catalog fetch returned status %d", apperr.ErrTransport, status)
	}

	doc, err := catalog.ParseDocument(body)
	if err != nil {
		return nil, err
	}
	return catalog.Build(doc, f.ctx.EnvironmentID)
}

func (f *Fetcher) doFetch(ctx context.Context, accessToken string) ([]byte, int, error) {
	url := f.catalogURL
	if url == "" {
		url = baseURL(f.creds.Region, f.creds.GUID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: building catalog request: %v", apperr.ErrTransport, err)
	}

	q := req.URL.Query()
	q.Set("action", "sdkConfig")
	q.Set("collection_id", f.ctx.CollectionID)
	q.Set("environment_id", f.ctx.EnvironmentID)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: catalog fetch: %v", apperr.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading catalog response: %v", apperr.ErrTransport, err)
	}
	return body, resp.StatusCode, nil
}
