package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables, loading an
// optional .env file from the working directory first. A missing .env file
// is not an error.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString("HTTP_ADDR", &cfg.EndpointAddrHTTP)
	setString("DATABASE_DSN", &cfg.DatabaseDSN)
	setString("REDIS_ADDR", &cfg.RedisAddr)
	setString("REDIS_PASSWORD", &cfg.RedisPassword)
	setInt("REDIS_DB", &cfg.RedisDB)
	setString("SECRET_KEY", &cfg.SecretKey)
	setString("TOKEN_HASH_ALGORITHM", &cfg.TokenHashAlgorithm)
	setDuration("ACCESS_TOKEN_TTL", &cfg.AccessTokenValidityDuration)
	setDuration("REFRESH_TOKEN_TTL", &cfg.RefreshTokenValidityDuration)
	setDuration("PASSWORD_RESET_TTL", &cfg.PasswordResetValidityDuration)
	setInt("BCRYPT_COST", &cfg.BcryptCost)
	setString("RESET_URL_BASE", &cfg.ResetURLBase)
	setString("S3_ROOT_USER", &cfg.S3RootUser)
	setString("S3_ROOT_PASSWORD", &cfg.S3RootPassword)
	setString("S3_BUCKET", &cfg.S3Bucket)
	setString("S3_REGION", &cfg.S3Region)
	setString("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)

	if v, ok := os.LookupEnv("ALLOWED_HOSTS"); ok {
		hosts := strings.Split(v, ",")
		for i := range hosts {
			hosts[i] = strings.TrimSpace(hosts[i])
		}
		cfg.AllowedHosts = hosts
	}
}
