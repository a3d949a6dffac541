package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/motomarket/internal/flagx"
	"github.com/dmitrijs2005/motomarket/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Duration
// fields accept "15m" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	EndpointAddrHealth      string         `json:"endpoint_addr_health"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Bucket                string         `json:"s3_bucket"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
	PresignValidityDuration timex.Duration `json:"presign_validity_duration"`
	RedisAddr               string         `json:"redis_addr"`
	RoleCacheTTL            timex.Duration `json:"role_cache_ttl"`
	RateLimit               float64        `json:"rate_limit"`
	RateBurst               int            `json:"rate_burst"`
	LogLevel                string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config (or the
// MOTOMARKET_CONFIG environment variable) onto config. Keys missing from the
// file leave the current value untouched. An unreadable or malformed file
// panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFilePath()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrHealth, c.EndpointAddrHealth)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.LogLevel, c.LogLevel)

	if c.PresignValidityDuration.Duration > 0 {
		config.PresignValidityDuration = c.PresignValidityDuration.Duration
	}
	if c.RoleCacheTTL.Duration > 0 {
		config.RoleCacheTTL = c.RoleCacheTTL.Duration
	}
	if c.RateLimit > 0 {
		config.RateLimit = c.RateLimit
	}
	if c.RateBurst > 0 {
		config.RateBurst = c.RateBurst
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
