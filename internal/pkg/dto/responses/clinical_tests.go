package responses

type ClinicalTest struct {
	DataPackageID  string `json:"dataPackageID"`
	AccessionID    string `json:"accessionID"`
	ApplicationURL string `json:"applicationUrl"`
	ExportURL      string `json:"exportUrl"`
	State          string `json:"state"`
	ReceivedDate   string `json:"receivedDate"`
}

type TestProductProfile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PipelineName string `json:"pipeline-name"`
}
