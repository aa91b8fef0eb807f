package exports

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qci-client/internal/app/config"
	"qci-client/internal/app/contracts"
	"qci-client/internal/pkg/constvars"
	"qci-client/internal/pkg/dto/responses"
	"qci-client/internal/pkg/exceptions"
	"qci-client/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type qciExportClient struct {
	BaseUrl    string
	Auth       contracts.AuthClient
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewQCIExportClient(internalConfig *config.InternalConfig, authClient contracts.AuthClient, logger *zap.Logger) contracts.ExportClient {
	return &qciExportClient{
		BaseUrl: strings.TrimSuffix(internalConfig.QCI.BaseUrl, "/") + constvars.EndpointExport,
		Auth:    authClient,
		HTTPClient: &http.Client{
			Timeout: time.Duration(internalConfig.QCI.HTTPTimeoutInSeconds) * time.Second,
		},
		Log: logger,
	}
}

// DownloadReportPDF writes the report for qciID to outputFileName and returns
// the absolute path. An empty outputFileName defaults to {id}_{date}.pdf.
func (c *qciExportClient) DownloadReportPDF(ctx context.Context, qciID, outputFileName string) (string, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("qciExportClient.DownloadReportPDF called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDataPackageIDKey, qciID),
	)

	resp, err := c.export(ctx, qciID, constvars.ExportViewPDF)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		vendorErr := c.vendorError(resp)
		c.Log.Error("qciExportClient.DownloadReportPDF QCI error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDataPackageIDKey, qciID),
			zap.Error(vendorErr),
		)
		if resp.StatusCode == constvars.StatusUnauthorized {
			c.Auth.Invalidate()
			return "", exceptions.ErrUnauthorized(vendorErr)
		}
		return "", exceptions.ErrGetQCIResource(vendorErr, constvars.ResourceReportPDF)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", exceptions.ErrGetQCIResource(err, constvars.ResourceReportPDF)
	}

	if outputFileName == "" {
		outputFileName = fmt.Sprintf("%s_%s.pdf", qciID, time.Now().Format(constvars.ReportPDFDateFormat))
	}
	if err := os.WriteFile(outputFileName, content, 0644); err != nil {
		c.Log.Error("qciExportClient.DownloadReportPDF error writing file",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrWriteReportFile(err)
	}

	absolutePath, err := filepath.Abs(outputFileName)
	if err != nil {
		return "", exceptions.ErrWriteReportFile(err)
	}

	c.Log.Info("qciExportClient.DownloadReportPDF succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDataPackageIDKey, qciID),
		zap.String(constvars.LoggingOutputFileKey, absolutePath),
	)
	return absolutePath, nil
}

func (c *qciExportClient) FindTestReportByID(ctx context.Context, qciID string) (*responses.TestReport, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("qciExportClient.FindTestReportByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDataPackageIDKey, qciID),
	)

	resp, err := c.export(ctx, qciID, constvars.ExportViewReportXML)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		vendorErr := c.vendorError(resp)
		c.Log.Error("qciExportClient.FindTestReportByID QCI error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDataPackageIDKey, qciID),
			zap.Error(vendorErr),
		)
		if resp.StatusCode == constvars.StatusUnauthorized {
			c.Auth.Invalidate()
			return nil, exceptions.ErrUnauthorized(vendorErr)
		}
		return nil, exceptions.ErrGetQCIResource(vendorErr, constvars.ResourceTestReport)
	}

	report := new(responses.TestReport)
	if err := xml.NewDecoder(resp.Body).Decode(report); err != nil {
		c.Log.Error("qciExportClient.FindTestReportByID error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceTestReport)
	}

	c.Log.Info("qciExportClient.FindTestReportByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccessionIDKey, report.Accession),
	)
	return report, nil
}

func (c *qciExportClient) export(ctx context.Context, qciID, view string) (*http.Response, error) {
	requestID := utils.GetRequestID(ctx)

	token, err := c.Auth.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("view", view)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s?%s", c.BaseUrl, qciID, params.Encode()), nil)
	if err != nil {
		c.Log.Error("qciExportClient.export error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAuthorization, fmt.Sprintf(constvars.AuthorizationBearerFormat, token))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("qciExportClient.export error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	return resp, nil
}

func (c *qciExportClient) vendorError(resp *http.Response) error {
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
