package config

type (
	InternalConfig struct {
		App App
		QCI QCI
	}

	DriverConfig struct {
		Logger Logger
	}

	App struct {
		Env     string
		Version string
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}

	QCI struct {
		BaseUrl                string
		ClientID               string
		ClientSecret           string
		HTTPTimeoutInSeconds   int
		UploadRatePerSecond    float64
		UploadBurst            int
		TokenFallbackTTLInMins int
	}
)
