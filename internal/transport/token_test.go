package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func tokenServer(t *testing.T, expiresIn int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-abc","expires_in":` + itoa(expiresIn) + `}`))
	}))
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestFetchToken_Success(t *testing.T) {
	srv := tokenServer(t, 3600)
	defer srv.Close()

	saved := iamTokenURL
	iamTokenURL = srv.URL
	defer func() { iamTokenURL = saved }()

	tok, err := fetchToken(context.Background(), http.DefaultClient, "apikey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.value != "tok-abc" {
		t.Fatalf("expected tok-abc, got %q", tok.value)
	}
	if tok.needsRefresh(time.Now()) {
		t.Fatal("freshly issued token should not need refresh")
	}
}

func TestToken_NeedsRefresh_PastExpiry(t *testing.T) {
	tok := token{value: "x", expiresAt: time.Now().Add(-time.Second)}
	if !tok.needsRefresh(time.Now()) {
		t.Fatal("expected expired token to need refresh")
	}
}
