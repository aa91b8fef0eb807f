package main

import (
	"context"
	"time"

	"qci-client/internal/app/config"
	"qci-client/internal/app/drivers/logger"
	"qci-client/internal/app/services/qci/auth"
	"qci-client/internal/app/services/qci/clinicaltests"
	"qci-client/internal/app/services/qci/datapackages"
	"qci-client/internal/pkg/dto/requests"
	"qci-client/internal/pkg/utils"
)

// Version sets the default build version
var Version = "develop"

// Tag sets the default latest commit tag
var Tag = "0.0.1-rc"

const exampleVCF = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
11	108225575	.	C	T	50	PASS	.
`

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)
	log.Infof("qci-client example, version %s tag %s", Version, Tag)

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	defer zapLogger.Sync()

	authClient := auth.NewQCIAuthClient(internalConfig, zapLogger)
	datapackageClient := datapackages.NewQCIDataPackageClient(internalConfig, authClient, zapLogger)
	clinicalTestClient := clinicaltests.NewQCIClinicalTestClient(internalConfig, authClient, zapLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = utils.WithRequestID(ctx)

	// Entries would normally be fetched from the caller's own database.
	datapackage, err := requests.NewDataPackage(requests.DataPackage{
		AccessionID:        "DM-121212",
		TestProductProfile: "QCI Somatic Cancer Pipeline",
		SpecimenID:         "14-375C",
		SpecimenDiagnosis:  "non-small cell lung cancer",
		PrimaryTumorSite:   "lung",
		SpecimenType:       "biopsy",
		VCF:                exampleVCF,
	})
	if err != nil {
		log.Fatalf("Building datapackage failed: %v", err)
	}

	receipt, err := datapackageClient.UploadDataPackage(ctx, datapackage)
	if err != nil {
		log.Fatalf("Upload failed: %v", err)
	}
	log.Infof("Upload accepted, status %s (%d%% complete)", receipt.Status, receipt.PercentageComplete)

	tests, err := clinicalTestClient.FindTests(ctx, &requests.ListTestsQuery{State: "final"})
	if err != nil {
		log.Fatalf("Listing tests failed: %v", err)
	}
	for _, test := range tests {
		log.Infof("Test %s (%s) received %s", test.AccessionID, test.State, test.ReceivedDate)
	}
}
