package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
)

// iamTokenURL is a var (not const) so tests can point it at a local server.
var iamTokenURL = "https://iam.cloud.ibm.com/identity/token"

// accessTokenResponse is the subset of the IAM token response this SDK
// consumes. expires_in is in seconds from issuance.
type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// token is an access token plus when it should be proactively renewed.
type token struct {
	value     string
	expiresAt time.Time
}

// refreshMargin is subtracted from the token's declared lifetime so a
// proactive renewal always happens before the server would reject it.
const refreshMargin = 60 * time.Second

func (t token) needsRefresh(now time.Time) bool {
	return !now.Before(t.expiresAt)
}

// fetchToken exchanges an API key for an IAM access token. It is reused
// both at startup and whenever a proactive or reactive refresh is due.
func fetchToken(ctx context.Context, httpClient *http.Client, apikey string) (token, error) {
	form := url.Values{}
	form.Set("response_type", "cloud_iam")
	form.Set("grant_type", "urn:ibm:params:oauth:grant-type:apikey")
	form.Set("apikey", apikey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, iamTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return token{}, fmt.Errorf("%w: building token request: %v", apperr.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return token{}, fmt.Errorf("%w: token exchange: %v", apperr.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return token{}, fmt.Errorf("%w: token exchange returned status %d", apperr.ErrTransport, resp.StatusCode)
	}

	var parsed accessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return token{}, fmt.Errorf("%w: decoding token response: %v", apperr.ErrTransport, err)
	}

	issuedAt := time.Now()
	expiresIn := time.Duration(parsed.ExpiresIn) * time.Second
	return token{
		value:     parsed.AccessToken,
		expiresAt: issuedAt.Add(expiresIn - refreshMargin),
	}, nil
}
