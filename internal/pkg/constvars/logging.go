package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingAccessionIDKey   = "accession_id"
	LoggingDataPackageIDKey = "datapackage_id"
	LoggingBatchSizeKey     = "batch_size"
	LoggingBatchFailedKey   = "batch_failed"
	LoggingTestCountKey     = "test_count"
	LoggingStateKey         = "state"
	LoggingStatusKey        = "status"
	LoggingStageKey         = "stage"
	LoggingOutputFileKey    = "output_file"
	LoggingTokenExpiryKey   = "token_expiry"
)
