package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:8081", "-h", "127.0.0.1:9091", "-d", "db", "-s", "secret",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
				"-x", "5", "-r", "redis:6379", "-t", "10", "-l", "2.5", "-m", "7", "-v", "debug",
			},
			expected: &Config{
				EndpointAddrHTTP:        "127.0.0.1:8081",
				EndpointAddrHealth:      "127.0.0.1:9091",
				DatabaseDSN:             "db",
				SecretKey:               "secret",
				S3RootUser:              "user",
				S3RootPassword:          "password",
				S3Bucket:                "bucket",
				S3Region:                "us-west-1",
				S3BaseEndpoint:          "http://endpoint",
				PresignValidityDuration: 5 * time.Minute,
				RedisAddr:               "redis:6379",
				RoleCacheTTL:            10 * time.Second,
				RateLimit:               2.5,
				RateBurst:               7,
				LogLevel:                "debug",
			},
		},
		{
			name: "config flag and unknown flags are ignored",
			args: []string{"cmd", "-c", "some.json", "-zzz", "1", "-d", "db"},
			expected: &Config{
				DatabaseDSN: "db",
			},
		},
		{
			name:        "bad number panics",
			args:        []string{"cmd", "-x", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
