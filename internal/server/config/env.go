package config

import "os"

// parseEnv overlays Config with HEALTHPOD_* environment variables.
// Only variables that are set override earlier sources.
func parseEnv(config *Config) {
	set := func(name string, target *string) {
		if v, ok := os.LookupEnv(name); ok {
			*target = v
		}
	}

	set("HEALTHPOD_ENDPOINT_ADDR", &config.EndpointAddr)
	set("HEALTHPOD_DATABASE_DSN", &config.DatabaseDSN)
	set("HEALTHPOD_SECRET_KEY", &config.SecretKey)
	set("HEALTHPOD_S3_ROOT_USER", &config.S3RootUser)
	set("HEALTHPOD_S3_ROOT_PASSWORD", &config.S3RootPassword)
	set("HEALTHPOD_S3_BUCKET", &config.S3Bucket)
	set("HEALTHPOD_S3_REGION", &config.S3Region)
	set("HEALTHPOD_S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}
