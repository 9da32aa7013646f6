package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/protodrive/internal/flagx"
	"github.com/dmitrijs2005/protodrive/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations use timex.Duration so
// both "15m" and integer nanoseconds are accepted. Pointer fields tell an
// absent key from a zero value; absent keys keep the current setting.
type JsonConfig struct {
	EndpointAddr                *string         `json:"endpoint_addr"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	MaxUploadSize               *int64          `json:"max_upload_size"`
	LogLevel                    *string         `json:"log_level"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
}

// parseJson overlays config with the file named by flagx.ConfigFile. It does
// nothing when no file is configured and panics when the file cannot be read
// or parsed.
func parseJson(config *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	set(&config.EndpointAddr, c.EndpointAddr)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	set(&config.MaxUploadSize, c.MaxUploadSize)
	set(&config.LogLevel, c.LogLevel)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
