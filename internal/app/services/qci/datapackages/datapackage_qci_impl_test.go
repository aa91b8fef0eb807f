package datapackages

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"

	"qci-client/internal/app/config"
	"qci-client/internal/app/contracts"
	"qci-client/internal/pkg/dto/requests"
	"qci-client/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testVCF = "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n11\t108225575\t.\tC\tT\t50\tPASS\t.\n"

// Compile-time check to ensure fakeAuthClient implements contracts.AuthClient
var _ contracts.AuthClient = (*fakeAuthClient)(nil)

type fakeAuthClient struct {
	Token               string
	TokenErr            error
	InvalidateCallCount int32
}

func (f *fakeAuthClient) AccessToken(ctx context.Context) (string, error) {
	return f.Token, f.TokenErr
}

func (f *fakeAuthClient) Invalidate() {
	atomic.AddInt32(&f.InvalidateCallCount, 1)
}

func newTestClient(serverURL string, auth contracts.AuthClient) contracts.DataPackageClient {
	internalConfig := &config.InternalConfig{
		QCI: config.QCI{
			BaseUrl:              serverURL,
			HTTPTimeoutInSeconds: 5,
			UploadRatePerSecond:  1000,
			UploadBurst:          1,
		},
	}
	return NewQCIDataPackageClient(internalConfig, auth, zap.NewNop())
}

func testDataPackage(t *testing.T, accessionID string) *requests.DataPackage {
	t.Helper()
	datapackage, err := requests.NewDataPackage(requests.DataPackage{
		AccessionID:        accessionID,
		TestProductProfile: "QCI Somatic Cancer Pipeline",
		SpecimenID:         "14-375C",
		VCF:                testVCF,
	})
	assert.NoError(t, err)
	return datapackage
}

var accessionPattern = regexp.MustCompile(`<accession>([^<]+)</accession>`)

// uploadedAccession digs the accession out of the metadata XML inside the
// multipart zip, proving the outbound request matches the package's fields.
func uploadedAccession(t *testing.T, r *http.Request) string {
	t.Helper()
	file, header, err := r.FormFile("file")
	assert.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	assert.NoError(t, err)
	assert.Contains(t, header.Filename, "QCI_DP_")

	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	assert.NoError(t, err)
	for _, archived := range reader.File {
		if archived.Name != "metadata.xml" {
			continue
		}
		opened, err := archived.Open()
		assert.NoError(t, err)
		metadata, err := io.ReadAll(opened)
		opened.Close()
		assert.NoError(t, err)
		match := accessionPattern.FindSubmatch(metadata)
		assert.NotNil(t, match)
		return string(match[1])
	}
	t.Fatal("upload carried no metadata.xml")
	return ""
}

func receiptJSON(accessionID string) string {
	return fmt.Sprintf(`{
		"method": "partner integration",
		"creator": "user1@domain.com",
		"title": "%s Cancer Hotspot Panel",
		"analysis-name": "%s",
		"status": "PREPROCESSING",
		"stage": "Validating",
		"pipeline-name": "QCI Somatic Cancer Pipeline",
		"percentage-complete": 20
	}`, accessionID, accessionID)
}

func TestUploadDataPackage(t *testing.T) {
	t.Run("Single Valid Upload", func(t *testing.T) {
		var requestCount int32
		var gotAccession, gotAuthorization, gotMethod, gotPath string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			gotMethod = r.Method
			gotPath = r.URL.Path
			gotAuthorization = r.Header.Get("Authorization")
			gotAccession = uploadedAccession(t, r)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, receiptJSON(gotAccession))
		}))
		defer server.Close()

		client := newTestClient(server.URL, &fakeAuthClient{Token: "test-token"})
		receipt, err := client.UploadDataPackage(context.Background(), testDataPackage(t, "DM-121212"))

		assert.NoError(t, err)
		assert.Equal(t, int32(1), requestCount, "exactly one outbound request")
		assert.Equal(t, "POST", gotMethod)
		assert.Equal(t, "/v1/datapackages", gotPath)
		assert.Equal(t, "Bearer test-token", gotAuthorization)
		assert.Equal(t, "DM-121212", gotAccession)
		assert.Equal(t, "PREPROCESSING", receipt.Status)
		assert.Equal(t, "Validating", receipt.Stage)
		assert.Equal(t, 20, receipt.PercentageComplete)
	})

	t.Run("Invalid Package Sends Nothing", func(t *testing.T) {
		var requestCount int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
		}))
		defer server.Close()

		client := newTestClient(server.URL, &fakeAuthClient{Token: "test-token"})
		invalid := &requests.DataPackage{AccessionID: "DM-121212"}
		_, err := client.UploadDataPackage(context.Background(), invalid)

		var customErr *exceptions.CustomError
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, int32(0), requestCount, "validation failures must not reach the wire")
	})

	t.Run("Nil Package", func(t *testing.T) {
		client := newTestClient("http://localhost:0", &fakeAuthClient{Token: "test-token"})
		_, err := client.UploadDataPackage(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("Vendor Rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"error":"INVALID_PIPELINE","error-description":"unknown test product profile"}`)
		}))
		defer server.Close()

		client := newTestClient(server.URL, &fakeAuthClient{Token: "test-token"})
		_, err := client.UploadDataPackage(context.Background(), testDataPackage(t, "DM-121212"))

		var customErr *exceptions.CustomError
		assert.True(t, errors.As(err, &customErr))
		assert.Contains(t, err.Error(), "unknown test product profile")
	})

	t.Run("Authentication Failure Invalidates Token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"invalid_token"}`)
		}))
		defer server.Close()

		fakeAuth := &fakeAuthClient{Token: "expired-token"}
		client := newTestClient(server.URL, fakeAuth)
		_, err := client.UploadDataPackage(context.Background(), testDataPackage(t, "DM-121212"))

		var customErr *exceptions.CustomError
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusUnauthorized, customErr.StatusCode)
		assert.Equal(t, int32(1), fakeAuth.InvalidateCallCount)
	})

	t.Run("Access Token Failure", func(t *testing.T) {
		var requestCount int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
		}))
		defer server.Close()

		fakeAuth := &fakeAuthClient{TokenErr: errors.New("credentials rejected")}
		client := newTestClient(server.URL, fakeAuth)
		_, err := client.UploadDataPackage(context.Background(), testDataPackage(t, "DM-121212"))

		assert.Error(t, err)
		assert.Equal(t, int32(0), requestCount)
	})
}

func TestUploadDataPackages(t *testing.T) {
	t.Run("All Entries In Input Order", func(t *testing.T) {
		var uploaded []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accession := uploadedAccession(t, r)
			uploaded = append(uploaded, accession)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, receiptJSON(accession))
		}))
		defer server.Close()

		client := newTestClient(server.URL, &fakeAuthClient{Token: "test-token"})
		batch := []*requests.DataPackage{
			testDataPackage(t, "DM-000001"),
			testDataPackage(t, "DM-000002"),
			testDataPackage(t, "DM-000003"),
		}
		entries, err := client.UploadDataPackages(context.Background(), batch)

		assert.NoError(t, err)
		assert.Equal(t, []string{"DM-000001", "DM-000002", "DM-000003"}, uploaded, "requests must cover all entries in input order")
		assert.Len(t, entries, 3)
		for i, entry := range entries {
			assert.Equal(t, i, entry.Index)
			assert.Equal(t, batch[i].AccessionID, entry.AccessionID)
			assert.NoError(t, entry.Err)
			assert.Equal(t, batch[i].AccessionID, entry.Receipt.AnalysisName)
		}
	})

	t.Run("Empty Batch Succeeds Trivially", func(t *testing.T) {
		var requestCount int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
		}))
		defer server.Close()

		client := newTestClient(server.URL, &fakeAuthClient{Token: "test-token"})
		entries, err := client.UploadDataPackages(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, entries)
		assert.Equal(t, int32(0), requestCount)
	})

	t.Run("Partial Failure Continues Batch", func(t *testing.T) {
		var uploaded []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accession := uploadedAccession(t, r)
			uploaded = append(uploaded, accession)
			if accession == "DM-000002" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				fmt.Fprint(w, `{"error":"DUPLICATE_ACCESSION"}`)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, receiptJSON(accession))
		}))
		defer server.Close()

		client := newTestClient(server.URL, &fakeAuthClient{Token: "test-token"})
		batch := []*requests.DataPackage{
			testDataPackage(t, "DM-000001"),
			testDataPackage(t, "DM-000002"),
			testDataPackage(t, "DM-000003"),
		}
		entries, err := client.UploadDataPackages(context.Background(), batch)

		assert.Error(t, err, "aggregate error reports the failed entries")
		assert.Contains(t, err.Error(), "1 of 3 datapackages failed")
		assert.Equal(t, []string{"DM-000001", "DM-000002", "DM-000003"}, uploaded)
		assert.Len(t, entries, 3)
		assert.NoError(t, entries[0].Err)
		assert.Error(t, entries[1].Err)
		assert.Nil(t, entries[1].Receipt)
		assert.NoError(t, entries[2].Err)
	})
}

func TestFindSubmissionByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/v1/datapackages/DP_727658804867835145738", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"analysis-name": "DM121212",
			"status": "DONE",
			"stage": "Pipeline successfully completed",
			"percentage-complete": 100,
			"results-id": "491081",
			"export-url": "https://api.ingenuity.com/v1/export/DP_727658804867835145738"
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, &fakeAuthClient{Token: "test-token"})
	status, err := client.FindSubmissionByID(context.Background(), "DP_727658804867835145738")

	assert.NoError(t, err)
	assert.Equal(t, "DONE", status.Status)
	assert.Equal(t, 100, status.PercentageComplete)
	assert.Equal(t, "491081", status.ResultsID)
}

func TestShareTest(t *testing.T) {
	t.Run("Valid Users", func(t *testing.T) {
		var gotBody []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/v1/datapackages/DP_1/users", r.URL.Path)
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := newTestClient(server.URL, &fakeAuthClient{Token: "test-token"})
		err := client.ShareTest(context.Background(), "DP_1", []requests.TestUser{{Email: "alex@example.com"}})

		assert.NoError(t, err)
		assert.JSONEq(t, `[{"email":"alex@example.com"}]`, string(gotBody))
	})

	t.Run("Invalid Email", func(t *testing.T) {
		client := newTestClient("http://localhost:0", &fakeAuthClient{Token: "test-token"})
		err := client.ShareTest(context.Background(), "DP_1", []requests.TestUser{{Email: "not-an-email"}})

		var customErr *exceptions.CustomError
		assert.True(t, errors.As(err, &customErr))
	})
}
