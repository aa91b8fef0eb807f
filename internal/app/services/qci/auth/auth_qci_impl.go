package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"qci-client/internal/app/config"
	"qci-client/internal/app/contracts"
	"qci-client/internal/pkg/constvars"
	"qci-client/internal/pkg/dto/responses"
	"qci-client/internal/pkg/exceptions"
	"qci-client/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// expiryMargin is subtracted from the token lifetime so a token is never
// handed out moments before the vendor stops accepting it.
const expiryMargin = 30 * time.Second

type qciAuthClient struct {
	BaseUrl      string
	ClientID     string
	ClientSecret string
	FallbackTTL  time.Duration
	HTTPClient   *http.Client
	Log          *zap.Logger

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewQCIAuthClient(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.AuthClient {
	return &qciAuthClient{
		BaseUrl:      strings.TrimSuffix(internalConfig.QCI.BaseUrl, "/") + constvars.EndpointOAuthAccessToken,
		ClientID:     internalConfig.QCI.ClientID,
		ClientSecret: internalConfig.QCI.ClientSecret,
		FallbackTTL:  time.Duration(internalConfig.QCI.TokenFallbackTTLInMins) * time.Minute,
		HTTPClient: &http.Client{
			Timeout: time.Duration(internalConfig.QCI.HTTPTimeoutInSeconds) * time.Second,
		},
		Log: logger,
	}
}

func (c *qciAuthClient) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiry) {
		return c.token, nil
	}
	return c.fetchToken(ctx)
}

// Invalidate drops the cached token so the next call fetches a fresh one,
// e.g. after the vendor starts answering 401 mid-lifetime.
func (c *qciAuthClient) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiry = time.Time{}
}

func (c *qciAuthClient) fetchToken(ctx context.Context) (string, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("qciAuthClient.fetchToken called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	params := url.Values{}
	params.Set("grant_type", constvars.GrantTypeClientCredentials)
	params.Set("client_id", c.ClientID)
	params.Set("client_secret", c.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s?%s", c.BaseUrl, params.Encode()), nil)
	if err != nil {
		c.Log.Error("qciAuthClient.fetchToken error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("qciAuthClient.fetchToken error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			c.Log.Error("qciAuthClient.fetchToken error reading response body",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(readErr),
			)
			return "", exceptions.ErrFetchAccessToken(readErr)
		}

		var apiError responses.APIError
		if err := json.Unmarshal(bodyBytes, &apiError); err != nil {
			c.Log.Error("qciAuthClient.fetchToken error unmarshaling vendor error",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return "", exceptions.ErrFetchAccessToken(err)
		}

		vendorErr := apiError.Err()
		c.Log.Error("qciAuthClient.fetchToken QCI error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(vendorErr),
		)
		return "", exceptions.ErrFetchAccessToken(vendorErr)
	}

	tokenResponse := new(responses.AccessToken)
	if err := json.NewDecoder(resp.Body).Decode(tokenResponse); err != nil {
		c.Log.Error("qciAuthClient.fetchToken error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrDecodeResponse(err, constvars.ResourceAccessToken)
	}
	if tokenResponse.AccessToken == "" {
		missingErr := fmt.Errorf("token response carried no access_token")
		c.Log.Error("qciAuthClient.fetchToken empty token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(missingErr),
		)
		return "", exceptions.ErrFetchAccessToken(missingErr)
	}

	c.token = tokenResponse.AccessToken
	c.expiry = c.tokenExpiry(tokenResponse)

	c.Log.Info("qciAuthClient.fetchToken succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Time(constvars.LoggingTokenExpiryKey, c.expiry),
	)
	return c.token, nil
}

// tokenExpiry prefers the exp claim when the token happens to be a JWT,
// falls back to expires_in, then to the configured TTL.
func (c *qciAuthClient) tokenExpiry(tokenResponse *responses.AccessToken) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenResponse.AccessToken, claims); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			return time.Unix(int64(exp), 0).Add(-expiryMargin)
		}
	}
	if tokenResponse.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(tokenResponse.ExpiresIn)*time.Second - expiryMargin)
	}
	return time.Now().Add(c.FallbackTTL - expiryMargin)
}
