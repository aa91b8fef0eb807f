package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":  "is required",
	"email":     "must be a valid email",
	"alphanum":  "must contain only alphanumeric characters",
	"min":       "must be at least %s characters long",
	"max":       "maximum at %s characters long",
	"numeric":   "must be a number",
	"len":       "must be %s characters long",
	"oneof":     "must be one of [%s]",
	"gt":        "must be greater than %s",
	"gte":       "must be greater than or equal to %s",
	"lt":        "must be less than %s",
	"lte":       "must be less than or equal to %s",
	"url":       "must be a valid URL",
	"datetime":  "must match the %s date format",
	"accession": "must be a valid accession identifier",
	"vcf":       "must contain VCF content",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":      true,
	"max":      true,
	"len":      true,
	"gt":       true,
	"gte":      true,
	"lt":       true,
	"lte":      true,
	"oneof":    true,
	"datetime": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the vendor API is taking too long to respond"
	ErrClientNotAuthorized                 = "the vendor API rejected your credentials"
	ErrClientSubmissionRejected            = "the vendor API rejected the submission"
)

// Error messages for developers
const (
	ErrDevInvalidInput             = "invalid input"
	ErrDevValidationFailed         = "input validation failed"
	ErrDevCannotParseJSON          = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON        = "cannot convert struct or other data types to JSON"
	ErrDevCannotMarshalXML         = "cannot convert struct to XML"
	ErrDevCannotParseXML           = "cannot parse XML into struct"
	ErrDevCannotBuildArchive       = "cannot build datapackage zip archive"
	ErrDevCannotBuildMultipartForm = "cannot build multipart form body"
	ErrDevCreateHTTPRequest        = "cannot instantiate http request"
	ErrDevSendHTTPRequest          = "error when sending http request"
	ErrDevServerDeadlineExceeded   = "deadline exceeded when calling the vendor API"
	ErrDevRateLimitWait            = "rate limiter wait aborted"
	ErrDevAuthFetchAccessToken     = "cannot fetch access token from the vendor API"
	ErrDevAuthUnauthorized         = "vendor API returned 401 unauthorized"
	ErrDevQCICreateResource        = "error from QCI when creating %s"
	ErrDevQCIGetResource           = "error from QCI when fetching %s"
	ErrDevQCIDecodeResponse        = "cannot decode QCI %s response"
	ErrDevWriteReportFile          = "cannot write report file to disk"
)
