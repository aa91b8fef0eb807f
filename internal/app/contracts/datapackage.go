package contracts

import (
	"context"
	"qci-client/internal/pkg/dto/requests"
	"qci-client/internal/pkg/dto/responses"
)

type DataPackageClient interface {
	UploadDataPackage(ctx context.Context, request *requests.DataPackage) (*responses.DataPackageReceipt, error)
	UploadDataPackages(ctx context.Context, request []*requests.DataPackage) ([]responses.BatchEntry, error)
	FindSubmissionByID(ctx context.Context, qciID string) (*responses.SubmissionStatus, error)
	ShareTest(ctx context.Context, qciID string, users []requests.TestUser) error
}
