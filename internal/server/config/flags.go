package config

import (
	"flag"
	"os"
	"time"

	"github.com/nexcart/authd/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      signup token validity, hours
//	-l int      login token validity, hours
//	-o string   comma-separated CORS origins
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration flags
// are accepted as integers in hours.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-l", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Address, "a", config.Address, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	signupTokenValidity := fs.Int("t", int(config.SignupTokenValidityDuration.Hours()), "signup_token_validity_duration (in hours)")
	loginTokenValidity := fs.Int("l", int(config.LoginTokenValidityDuration.Hours()), "login_token_validity_duration (in hours)")

	fs.StringVar(&config.CORSOrigins, "o", config.CORSOrigins, "allowed CORS origins, comma-separated")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SignupTokenValidityDuration = time.Duration(*signupTokenValidity) * time.Hour
	config.LoginTokenValidityDuration = time.Duration(*loginTokenValidity) * time.Hour
}
