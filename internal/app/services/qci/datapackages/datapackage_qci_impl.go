package datapackages

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
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
	"golang.org/x/time/rate"
)

type qciDataPackageClient struct {
	BaseUrl    string
	Auth       contracts.AuthClient
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Log        *zap.Logger
}

func NewQCIDataPackageClient(internalConfig *config.InternalConfig, authClient contracts.AuthClient, logger *zap.Logger) contracts.DataPackageClient {
	return &qciDataPackageClient{
		BaseUrl: strings.TrimSuffix(internalConfig.QCI.BaseUrl, "/") + constvars.EndpointDataPackages,
		Auth:    authClient,
		HTTPClient: &http.Client{
			Timeout: time.Duration(internalConfig.QCI.HTTPTimeoutInSeconds) * time.Second,
		},
		Limiter: rate.NewLimiter(rate.Limit(internalConfig.QCI.UploadRatePerSecond), internalConfig.QCI.UploadBurst),
		Log:     logger,
	}
}

func (c *qciDataPackageClient) UploadDataPackage(ctx context.Context, request *requests.DataPackage) (*responses.DataPackageReceipt, error) {
	requestID := utils.GetRequestID(ctx)
	if request == nil {
		return nil, exceptions.ErrInputValidation(nil)
	}
	c.Log.Info("qciDataPackageClient.UploadDataPackage called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccessionIDKey, request.AccessionID),
	)

	if err := utils.ValidateStruct(*request); err != nil {
		c.Log.Error("qciDataPackageClient.UploadDataPackage validation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInputValidation(err)
	}

	if err := c.Limiter.Wait(ctx); err != nil {
		c.Log.Error("qciDataPackageClient.UploadDataPackage rate limiter wait aborted",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrRateLimitWait(err)
	}

	archive, err := request.Archive()
	if err != nil {
		c.Log.Error("qciDataPackageClient.UploadDataPackage error building archive",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)
	filePart, err := form.CreateFormFile(constvars.DataPackageFormFileField, request.ArchiveFileName())
	if err != nil {
		return nil, exceptions.ErrBuildMultipartForm(err)
	}
	if _, err := filePart.Write(archive); err != nil {
		return nil, exceptions.ErrBuildMultipartForm(err)
	}
	if err := form.Close(); err != nil {
		return nil, exceptions.ErrBuildMultipartForm(err)
	}

	token, err := c.Auth.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.BaseUrl, body)
	if err != nil {
		c.Log.Error("qciDataPackageClient.UploadDataPackage error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, form.FormDataContentType())
	req.Header.Set(constvars.HeaderAuthorization, fmt.Sprintf(constvars.AuthorizationBearerFormat, token))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("qciDataPackageClient.UploadDataPackage error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		vendorErr := c.vendorError(resp)
		c.Log.Error("qciDataPackageClient.UploadDataPackage QCI error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAccessionIDKey, request.AccessionID),
			zap.Error(vendorErr),
		)
		if resp.StatusCode == constvars.StatusUnauthorized {
			c.Auth.Invalidate()
			return nil, exceptions.ErrUnauthorized(vendorErr)
		}
		return nil, exceptions.ErrCreateQCIResource(vendorErr, constvars.ResourceDataPackage)
	}

	receipt := new(responses.DataPackageReceipt)
	if err := json.NewDecoder(resp.Body).Decode(receipt); err != nil {
		c.Log.Error("qciDataPackageClient.UploadDataPackage error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceDataPackage)
	}

	c.Log.Info("qciDataPackageClient.UploadDataPackage succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccessionIDKey, request.AccessionID),
		zap.String(constvars.LoggingStatusKey, receipt.Status),
		zap.String(constvars.LoggingStageKey, receipt.Stage),
	)
	return receipt, nil
}

// UploadDataPackages submits the packages one by one in input order. A
// failing entry does not stop the batch; the returned slice carries a receipt
// or an error per entry, and the aggregate error is non-nil when any entry
// failed. An empty batch succeeds with an empty result.
func (c *qciDataPackageClient) UploadDataPackages(ctx context.Context, request []*requests.DataPackage) ([]responses.BatchEntry, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("qciDataPackageClient.UploadDataPackages called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingBatchSizeKey, len(request)),
	)

	entries := make([]responses.BatchEntry, 0, len(request))
	var failed int
	for i, datapackage := range request {
		entry := responses.BatchEntry{Index: i}
		if datapackage != nil {
			entry.AccessionID = datapackage.AccessionID
		}
		entry.Receipt, entry.Err = c.UploadDataPackage(ctx, datapackage)
		if entry.Err != nil {
			failed++
		}
		entries = append(entries, entry)
	}

	if failed > 0 {
		batchErr := fmt.Errorf("%d of %d datapackages failed", failed, len(request))
		c.Log.Error("qciDataPackageClient.UploadDataPackages finished with failures",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingBatchSizeKey, len(request)),
			zap.Int(constvars.LoggingBatchFailedKey, failed),
		)
		return entries, exceptions.ErrCreateQCIResource(batchErr, constvars.ResourceDataPackage)
	}

	c.Log.Info("qciDataPackageClient.UploadDataPackages succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingBatchSizeKey, len(request)),
	)
	return entries, nil
}

func (c *qciDataPackageClient) FindSubmissionByID(ctx context.Context, qciID string) (*responses.SubmissionStatus, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("qciDataPackageClient.FindSubmissionByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDataPackageIDKey, qciID),
	)

	token, err := c.Auth.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s", c.BaseUrl, qciID), nil)
	if err != nil {
		c.Log.Error("qciDataPackageClient.FindSubmissionByID error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAuthorization, fmt.Sprintf(constvars.AuthorizationBearerFormat, token))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("qciDataPackageClient.FindSubmissionByID error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		vendorErr := c.vendorError(resp)
		c.Log.Error("qciDataPackageClient.FindSubmissionByID QCI error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDataPackageIDKey, qciID),
			zap.Error(vendorErr),
		)
		if resp.StatusCode == constvars.StatusUnauthorized {
			c.Auth.Invalidate()
			return nil, exceptions.ErrUnauthorized(vendorErr)
		}
		return nil, exceptions.ErrGetQCIResource(vendorErr, constvars.ResourceDataPackage)
	}

	status := new(responses.SubmissionStatus)
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		c.Log.Error("qciDataPackageClient.FindSubmissionByID error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceDataPackage)
	}

	c.Log.Info("qciDataPackageClient.FindSubmissionByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDataPackageIDKey, qciID),
		zap.String(constvars.LoggingStatusKey, status.Status),
	)
	return status, nil
}

func (c *qciDataPackageClient) ShareTest(ctx context.Context, qciID string, users []requests.TestUser) error {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("qciDataPackageClient.ShareTest called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDataPackageIDKey, qciID),
	)

	for _, user := range users {
		if err := utils.ValidateStruct(user); err != nil {
			return exceptions.ErrInputValidation(err)
		}
	}

	requestJSON, err := json.Marshal(users)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	token, err := c.Auth.AccessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, fmt.Sprintf("%s/%s/users", c.BaseUrl, qciID), bytes.NewBuffer(requestJSON))
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAuthorization, fmt.Sprintf(constvars.AuthorizationBearerFormat, token))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("qciDataPackageClient.ShareTest error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated && resp.StatusCode != constvars.StatusNoContent {
		vendorErr := c.vendorError(resp)
		c.Log.Error("qciDataPackageClient.ShareTest QCI error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDataPackageIDKey, qciID),
			zap.Error(vendorErr),
		)
		if resp.StatusCode == constvars.StatusUnauthorized {
			c.Auth.Invalidate()
			return exceptions.ErrUnauthorized(vendorErr)
		}
		return exceptions.ErrCreateQCIResource(vendorErr, constvars.ResourceDataPackage)
	}

	c.Log.Info("qciDataPackageClient.ShareTest succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDataPackageIDKey, qciID),
	)
	return nil
}

func (c *qciDataPackageClient) vendorError(resp *http.Response) error {
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
