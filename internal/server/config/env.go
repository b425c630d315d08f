package config

import (
	"os"
	"time"
)

// parseEnv overlays Config fields from environment variables. The environment
// is applied last so that deployment settings win over file and flag values.
//
// Recognized variables:
//
//	ADDRESS                HTTP bind address
//	DATABASE_DSN           PostgreSQL DSN
//	SECRET_KEY             JWT HMAC secret
//	SIGNUP_TOKEN_VALIDITY  signup token lifetime, time.ParseDuration format
//	LOGIN_TOKEN_VALIDITY   login token lifetime, time.ParseDuration format
//	CORS_ORIGINS           comma-separated allowed origins
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.Address = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("SIGNUP_TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.SignupTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("LOGIN_TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.LoginTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		config.CORSOrigins = v
	}
}
