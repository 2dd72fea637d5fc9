package config

// Config holds the global application configuration loaded from config.yml.
type Config struct {
	Devici     Devici     `yaml:"devici"`
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Schema     Schema     `yaml:"schema"`
}

// Devici holds settings for the workspace folders and the remote platform.
type Devici struct {
	HomeFolder    string `yaml:"home_folder"`
	ResultsFolder string `yaml:"results_folder"`
	BaseURL       string `yaml:"base_url"`
	Collection    string `yaml:"collection"`
}

type Logger struct {
	Level string `yaml:"level"`
}

// HTTPClient holds HTTP client settings. Durations are expressed in seconds.
type HTTPClient struct {
	Debug            bool            `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    int             `yaml:"retry_wait_time"`
	RetryMaxWaitTime int             `yaml:"retry_max_wait_time"`
	Timeout          int             `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Schema holds the location of the OTM JSON schema contract.
type Schema struct {
	Path string `yaml:"path"`
}
