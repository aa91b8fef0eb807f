package contracts

import (
	"context"
	"qci-client/internal/pkg/dto/responses"
)

type ExportClient interface {
	DownloadReportPDF(ctx context.Context, qciID, outputFileName string) (string, error)
	FindTestReportByID(ctx context.Context, qciID string) (*responses.TestReport, error)
}
