package responses

import "fmt"

// DataPackageReceipt is the vendor's acknowledgement of an accepted upload.
type DataPackageReceipt struct {
	Method             string   `json:"method"`
	Creator            string   `json:"creator"`
	Users              []string `json:"users"`
	Title              string   `json:"title"`
	AnalysisName       string   `json:"analysis-name"`
	Status             string   `json:"status"`
	Stage              string   `json:"stage"`
	ResultsURL         string   `json:"results-url"`
	StatusURL          string   `json:"status-url"`
	PipelineName       string   `json:"pipeline-name"`
	PercentageComplete int      `json:"percentage-complete"`
}

// SubmissionStatus is the receipt shape once the pipeline has progressed;
// result fields stay empty until the analysis is done.
type SubmissionStatus struct {
	DataPackageReceipt

	ResultsID          string `json:"results-id"`
	ResultsRedirectURL string `json:"results-redirect-url"`
	ExportURL          string `json:"export-url"`
}

// BatchEntry is the per-package outcome of a batch upload, in input order.
type BatchEntry struct {
	Index       int
	AccessionID string
	Receipt     *DataPackageReceipt
	Err         error
}

// APIError is the vendor's JSON error body on non-2xx responses.
type APIError struct {
	ErrorCode   string `json:"error"`
	Message     string `json:"message"`
	Description string `json:"error-description"`
}

func (e *APIError) Err() error {
	switch {
	case e.Description != "":
		return fmt.Errorf("%s: %s", e.ErrorCode, e.Description)
	case e.Message != "":
		return fmt.Errorf("%s", e.Message)
	case e.ErrorCode != "":
		return fmt.Errorf("%s", e.ErrorCode)
	default:
		return fmt.Errorf("unexpected response from vendor API")
	}
}
