package clinicaltests

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"qci-client/internal/app/config"
	"qci-client/internal/app/contracts"
	"qci-client/internal/pkg/constvars"
	"qci-client/internal/pkg/dto/requests"
	"qci-client/internal/pkg/dto/responses"
	"qci-client/internal/pkg/exceptions"
	"qci-client/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type qciClinicalTestClient struct {
	BaseUrl    string
	Auth       contracts.AuthClient
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewQCIClinicalTestClient(internalConfig *config.InternalConfig, authClient contracts.AuthClient, logger *zap.Logger) contracts.ClinicalTestClient {
	return &qciClinicalTestClient{
		BaseUrl: strings.TrimSuffix(internalConfig.QCI.BaseUrl, "/"),
		Auth:    authClient,
		HTTPClient: &http.Client{
			Timeout: time.Duration(internalConfig.QCI.HTTPTimeoutInSeconds) * time.Second,
		},
		Log: logger,
	}
}

func (c *qciClinicalTestClient) FindTests(ctx context.Context, query *requests.ListTestsQuery) ([]responses.ClinicalTest, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("qciClinicalTestClient.FindTests called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if query != nil {
		if err := utils.ValidateStruct(*query); err != nil {
			c.Log.Error("qciClinicalTestClient.FindTests validation failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, exceptions.ErrInputValidation(err)
		}
	}

	endpoint := c.BaseUrl + constvars.EndpointClinical
	if params := query.Values().Encode(); params != "" {
		endpoint = fmt.Sprintf("%s?%s", endpoint, params)
	}

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		vendorErr := c.vendorError(resp)
		c.Log.Error("qciClinicalTestClient.FindTests QCI error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(vendorErr),
		)
		if resp.StatusCode == constvars.StatusUnauthorized {
			c.Auth.Invalidate()
			return nil, exceptions.ErrUnauthorized(vendorErr)
		}
		return nil, exceptions.ErrGetQCIResource(vendorErr, constvars.ResourceClinicalTest)
	}

	var tests []responses.ClinicalTest
	if err := json.NewDecoder(resp.Body).Decode(&tests); err != nil {
		c.Log.Error("qciClinicalTestClient.FindTests error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceClinicalTest)
	}

	c.Log.Info("qciClinicalTestClient.FindTests succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingTestCountKey, len(tests)),
	)
	return tests, nil
}

func (c *qciClinicalTestClient) FindTestProductProfiles(ctx context.Context) ([]responses.TestProductProfile, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("qciClinicalTestClient.FindTestProductProfiles called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	resp, err := c.get(ctx, c.BaseUrl+constvars.EndpointTestProductProfile)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		vendorErr := c.vendorError(resp)
		c.Log.Error("qciClinicalTestClient.FindTestProductProfiles QCI error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(vendorErr),
		)
		if resp.StatusCode == constvars.StatusUnauthorized {
			c.Auth.Invalidate()
			return nil, exceptions.ErrUnauthorized(vendorErr)
		}
		return nil, exceptions.ErrGetQCIResource(vendorErr, constvars.ResourceTestProfile)
	}

	var profiles []responses.TestProductProfile
	if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
		c.Log.Error("qciClinicalTestClient.FindTestProductProfiles error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceTestProfile)
	}

	c.Log.Info("qciClinicalTestClient.FindTestProductProfiles succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingTestCountKey, len(profiles)),
	)
	return profiles, nil
}

func (c *qciClinicalTestClient) get(ctx context.Context, endpoint string) (*http.Response, error) {
	requestID := utils.GetRequestID(ctx)

	token, err := c.Auth.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, endpoint, nil)
	if err != nil {
		c.Log.Error("qciClinicalTestClient.get error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAuthorization, fmt.Sprintf(constvars.AuthorizationBearerFormat, token))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("qciClinicalTestClient.get error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	return resp, nil
}

func (c *qciClinicalTestClient) vendorError(resp *http.Response) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var apiError responses.APIError
	if err := json.Unmarshal(bodyBytes, &apiError); err != nil {
		return fmt.Errorf("%s", strings.TrimSpace(string(bodyBytes)))
	}
	return apiError.Err()
}
