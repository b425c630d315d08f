package config

import (
	"encoding/json"
	"os"

	"github.com/nexcart/authd/internal/flagx"
	"github.com/nexcart/authd/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Duration fields accept both strings such as "360h" and integer
// nanoseconds. After unmarshalling, set fields are copied into the runtime
// Config.
type JsonConfig struct {
	Address                     *string         `json:"address"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	SignupTokenValidityDuration *timex.Duration `json:"signup_token_validity_duration"`
	LoginTokenValidityDuration  *timex.Duration `json:"login_token_validity_duration"`
	CORSOrigins                 *string         `json:"cors_origins"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flags into the provided Config. When no file is named, nothing is
// loaded. An unreadable or malformed file panics: the server must not start
// with half-applied configuration.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Address != nil {
		config.Address = *c.Address
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.SignupTokenValidityDuration != nil {
		config.SignupTokenValidityDuration = c.SignupTokenValidityDuration.Duration
	}
	if c.LoginTokenValidityDuration != nil {
		config.LoginTokenValidityDuration = c.LoginTokenValidityDuration.Duration
	}
	if c.CORSOrigins != nil {
		config.CORSOrigins = *c.CORSOrigins
	}
}
