package contracts

import (
	"context"
	"qci-client/internal/pkg/dto/requests"
	"qci-client/internal/pkg/dto/responses"
)

type ClinicalTestClient interface {
	FindTests(ctx context.Context, query *requests.ListTestsQuery) ([]responses.ClinicalTest, error)
	FindTestProductProfiles(ctx context.Context) ([]responses.TestProductProfile, error)
}
