package config

import (
	"encoding/json"
	"os"

	"github.com/Santos2175/auth-app/internal/flagx"
	"github.com/Santos2175/auth-app/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations are
// timex.Duration so both "24h" and integer nanoseconds are accepted.
// Pointers distinguish "absent" from "zero" for the non-string fields.
type JsonConfig struct {
	EndpointAddrHTTP             string          `json:"endpoint_addr_http"`
	DatabaseDSN                  string          `json:"database_dsn"`
	StorageMode                  string          `json:"storage_mode"`
	SecretKey                    string          `json:"secret_key"`
	SessionValidityDuration      *timex.Duration `json:"session_validity_duration"`
	VerificationValidityDuration *timex.Duration `json:"verification_validity_duration"`
	ResetValidityDuration        *timex.Duration `json:"reset_validity_duration"`
	BcryptCost                   *int            `json:"bcrypt_cost"`
	ClientURL                    string          `json:"client_url"`
	Environment                  string          `json:"environment"`
	SMTPHost                     string          `json:"smtp_host"`
	SMTPPort                     *int            `json:"smtp_port"`
	SMTPUser                     string          `json:"smtp_user"`
	SMTPPassword                 string          `json:"smtp_password"`
	EmailFrom                    string          `json:"email_from"`
	EmailAddress                 string          `json:"email_address"`
	MailMode                     string          `json:"mail_mode"`
	RedisAddr                    string          `json:"redis_addr"`
	RevokeOnLogout               *bool           `json:"revoke_on_logout"`
	NotificationQueueSize        *int            `json:"notification_queue_size"`
}

// parseJson overlays values from the JSON file named by -c / -config (or the
// CONFIG environment variable) onto config. Keys absent from the file leave
// the current value untouched. An unreadable or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

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
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.StorageMode, c.StorageMode)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.ClientURL, c.ClientURL)
	setString(&config.Environment, c.Environment)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.EmailFrom, c.EmailFrom)
	setString(&config.EmailAddress, c.EmailAddress)
	setString(&config.MailMode, c.MailMode)
	setString(&config.RedisAddr, c.RedisAddr)

	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.VerificationValidityDuration != nil {
		config.VerificationValidityDuration = c.VerificationValidityDuration.Duration
	}
	if c.ResetValidityDuration != nil {
		config.ResetValidityDuration = c.ResetValidityDuration.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.SMTPPort != nil {
		config.SMTPPort = *c.SMTPPort
	}
	if c.RevokeOnLogout != nil {
		config.RevokeOnLogout = *c.RevokeOnLogout
	}
	if c.NotificationQueueSize != nil {
		config.NotificationQueueSize = *c.NotificationQueueSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
