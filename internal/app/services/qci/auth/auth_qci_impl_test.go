package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"qci-client/internal/app/config"
	"qci-client/internal/pkg/exceptions"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestConfig(serverURL string) *config.InternalConfig {
	return &config.InternalConfig{
		QCI: config.QCI{
			BaseUrl:                serverURL,
			ClientID:               "test-client-id",
			ClientSecret:           "test-client-secret",
			HTTPTimeoutInSeconds:   5,
			TokenFallbackTTLInMins: 30,
		},
	}
}

func TestAccessToken(t *testing.T) {
	t.Run("Fetches And Caches", func(t *testing.T) {
		var requestCount int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			assert.Equal(t, "/v1/oauth/access_token", r.URL.Path)
			assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
			assert.Equal(t, "test-client-id", r.URL.Query().Get("client_id"))
			assert.Equal(t, "test-client-secret", r.URL.Query().Get("client_secret"))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"opaque-token-1","token_type":"bearer","expires_in":3600}`)
		}))
		defer server.Close()

		client := NewQCIAuthClient(newTestConfig(server.URL), zap.NewNop())

		token, err := client.AccessToken(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "opaque-token-1", token)

		token, err = client.AccessToken(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "opaque-token-1", token)
		assert.Equal(t, int32(1), requestCount, "second call must hit the cache")
	})

	t.Run("Invalidate Forces Refetch", func(t *testing.T) {
		var requestCount int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"access_token":"opaque-token-%d","expires_in":3600}`, count)
		}))
		defer server.Close()

		client := NewQCIAuthClient(newTestConfig(server.URL), zap.NewNop())

		token, err := client.AccessToken(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "opaque-token-1", token)

		client.Invalidate()

		token, err = client.AccessToken(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "opaque-token-2", token)
	})

	t.Run("Expired Token Is Refetched", func(t *testing.T) {
		var requestCount int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.Header().Set("Content-Type", "application/json")
			// expires_in of 1s is inside the safety margin, so the token is
			// already stale when handed out.
			fmt.Fprint(w, `{"access_token":"short-lived","expires_in":1}`)
		}))
		defer server.Close()

		client := NewQCIAuthClient(newTestConfig(server.URL), zap.NewNop())

		_, err := client.AccessToken(context.Background())
		assert.NoError(t, err)
		_, err = client.AccessToken(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, int32(2), requestCount)
	})

	t.Run("Rejected Credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"invalid_client","error-description":"client authentication failed"}`)
		}))
		defer server.Close()

		client := NewQCIAuthClient(newTestConfig(server.URL), zap.NewNop())

		_, err := client.AccessToken(context.Background())
		var customErr *exceptions.CustomError
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusUnauthorized, customErr.StatusCode)
		assert.Contains(t, err.Error(), "client authentication failed")
	})

	t.Run("Empty Token Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{}`)
		}))
		defer server.Close()

		client := NewQCIAuthClient(newTestConfig(server.URL), zap.NewNop())

		_, err := client.AccessToken(context.Background())
		assert.Error(t, err)
	})
}

func TestTokenExpiryFromJWTClaim(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"%s"}`, signed)
	}))
	defer server.Close()

	client := NewQCIAuthClient(newTestConfig(server.URL), zap.NewNop()).(*qciAuthClient)

	_, err = client.AccessToken(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, exp.Add(-expiryMargin), client.expiry, "expiry should come from the exp claim")
}
