package config

import (
	"qci-client/internal/pkg/constvars"
	"qci-client/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:     utils.GetEnvString("APP_ENV", "development"),
			Version: utils.GetEnvString("APP_VERSION", "v1.0"),
		},
		QCI: QCI{
			BaseUrl:                utils.GetEnvString("QCI_BASE_URL", constvars.QCIDefaultBaseUrl),
			ClientID:               utils.GetEnvString("QCI_CLIENT_ID", ""),
			ClientSecret:           utils.GetEnvString("QCI_CLIENT_SECRET", ""),
			HTTPTimeoutInSeconds:   utils.GetEnvInt("QCI_HTTP_TIMEOUT_IN_SECONDS", 30),
			UploadRatePerSecond:    utils.GetEnvFloat("QCI_UPLOAD_RATE_PER_SECOND", 2),
			UploadBurst:            utils.GetEnvInt("QCI_UPLOAD_BURST", 1),
			TokenFallbackTTLInMins: utils.GetEnvInt("QCI_TOKEN_FALLBACK_TTL_IN_MINUTES", 30),
		},
	}
}
