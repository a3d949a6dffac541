package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/motomarket/internal/flagx"
)

var knownFlags = []string{"-a", "-h", "-d", "-s", "-u", "-p", "-b", "-g", "-e", "-x", "-r", "-t", "-l", "-m", "-v"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   REST bind address (e.g., ":8080")
//	-h string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x int      presigned URL validity, minutes
//	-r string   Redis address for the role cache (empty disables it)
//	-t int      role cache TTL, seconds
//	-l float    requests per second per client
//	-m int      request burst per client
//	-v string   log level
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and unknown
// flags do not abort parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "REST address and port")
	fs.StringVar(&config.EndpointAddrHealth, "h", config.EndpointAddrHealth, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	presignValidity := fs.Int("x", int(config.PresignValidityDuration.Minutes()), "presigned URL validity (in minutes)")

	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	roleCacheTTL := fs.Int("t", int(config.RoleCacheTTL.Seconds()), "role cache TTL (in seconds)")

	fs.Float64Var(&config.RateLimit, "l", config.RateLimit, "requests per second per client")
	fs.IntVar(&config.RateBurst, "m", config.RateBurst, "request burst per client")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.PresignValidityDuration = time.Duration(*presignValidity) * time.Minute
	config.RoleCacheTTL = time.Duration(*roleCacheTTL) * time.Second
}
