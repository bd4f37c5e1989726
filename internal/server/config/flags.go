package config

import (
	"flag"
	"os"
	"time"

	"github.com/Santos2175/auth-app/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-m string   storage mode: postgres | memory
//	-s string   JWT HMAC secret key
//	-t int      session validity, minutes
//	-u string   client URL (CORS origin, reset links)
//	-e string   environment (production enables secure cookies)
//	-l string   mail mode: smtp | log
//	-r string   Redis address for session revocation
//
// Only the flags listed above are picked out of os.Args, so other components
// may share the command line.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-s", "-t", "-u", "-e", "-l", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageMode, "m", config.StorageMode, "storage mode (postgres|memory)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session validity (in minutes)")

	fs.StringVar(&config.ClientURL, "u", config.ClientURL, "client URL")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	fs.StringVar(&config.MailMode, "l", config.MailMode, "mail mode (smtp|log)")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
}
