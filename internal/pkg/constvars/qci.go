package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY ContextKey = "request_id"
)

const (
	REQUEST_ID_PREFIX = "QCI_CLIENT_"
)

const (
	QCIDefaultBaseUrl = "https://api.ingenuity.com"

	EndpointOAuthAccessToken   = "/v1/oauth/access_token"
	EndpointDataPackages       = "/v1/datapackages"
	EndpointExport             = "/v1/export"
	EndpointClinical           = "/v1/clinical"
	EndpointTestProductProfile = "/v1/testProductProfiles"
)

const (
	ResourceDataPackage  = "DataPackage"
	ResourceAccessToken  = "AccessToken"
	ResourceClinicalTest = "ClinicalTest"
	ResourceTestReport   = "TestReport"
	ResourceReportPDF    = "ReportPDF"
	ResourceTestProfile  = "TestProductProfile"
)

const (
	GrantTypeClientCredentials = "client_credentials"
)

const (
	ExportViewPDF       = "pdf"
	ExportViewReportXML = "reportXml"
)

// States accepted by the clinical test listing endpoint.
const (
	TestStatePending     = "pending"
	TestStateInReview    = "in_review"
	TestStateNeedsReview = "needs_review"
	TestStateFinal       = "final"
)

const (
	TestSortReceivedDateAsc  = "receivedDateAsc"
	TestSortReceivedDateDesc = "receivedDateDesc"
)

const (
	DataPackageMetadataFileName = "metadata.xml"
	DataPackageArchivePrefix    = "QCI_DP_"
	DataPackageFormFileField    = "file"
	ReportPDFDateFormat         = "2006-01-02"
)
