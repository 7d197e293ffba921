package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded before reading variables. Variables already present in
// the process environment win over the file.
var envFile = ".env"

// parseEnv overlays config with GT_* variables (and GIN_MODE).
//
//	GT_ADDRESS               HTTP bind address
//	GT_DATABASE_DSN          database DSN
//	GT_SECRET_KEY            token signing secret
//	GT_TOKEN_VALIDITY        token lifetime, e.g. "8760h"
//	GT_BCRYPT_COST           bcrypt work factor
//	GT_CORS_ALLOWED_ORIGINS  comma separated origins
//	GIN_MODE                 debug, release or test
//	GT_SEED                  true to load demo data
func parseEnv(config *Config) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	if v, ok := os.LookupEnv("GT_ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("GT_DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("GT_SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("GT_TOKEN_VALIDITY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GT_TOKEN_VALIDITY: %w", err)
		}
		config.TokenValidityDuration = d
	}
	if v, ok := os.LookupEnv("GT_BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GT_BCRYPT_COST: %w", err)
		}
		config.BcryptCost = n
	}
	if v, ok := os.LookupEnv("GT_CORS_ALLOWED_ORIGINS"); ok {
		config.CORSAllowedOrigins = v
	}
	if v, ok := os.LookupEnv("GIN_MODE"); ok {
		config.GinMode = v
	}
	if v, ok := os.LookupEnv("GT_SEED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GT_SEED: %w", err)
		}
		config.Seed = b
	}

	return nil
}
