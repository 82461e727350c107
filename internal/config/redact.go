package config

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// keyValuePassword matches password=... in libpq keyword/value strings.
var keyValuePassword = regexp.MustCompile(`(?i)\bpassword=('[^']*'|\S+)`) //nolint:gochecknoglobals // compiled once

// RedactURL replaces the password in a database connection string with "***".
// PostgreSQL URLs, libpq keyword/value strings and MySQL DSNs are
// recognised. Anything else is returned unchanged.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}

	if strings.Contains(raw, "://") {
		return redactURLForm(raw)
	}

	if keyValuePassword.MatchString(raw) {
		return keyValuePassword.ReplaceAllString(raw, "password=***")
	}

	return redactMySQLDSN(raw)
}

func redactURLForm(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if u.User == nil {
		return raw
	}

	if _, hasPassword := u.User.Password(); !hasPassword {
		return raw
	}

	// Find the userinfo section between "://" and "@" in the raw string,
	// then replace the password portion (after "username:") with "***".
	afterScheme := strings.Index(raw, "://") + len("://")

	atIdx := strings.Index(raw[afterScheme:], "@")
	if atIdx < 0 {
		return raw
	}

	userinfo := raw[afterScheme : afterScheme+atIdx]
	colonIdx := strings.Index(userinfo, ":")

	if colonIdx < 0 {
		return raw
	}

	return raw[:afterScheme] + userinfo[:colonIdx+1] + "***" + raw[afterScheme+atIdx:]
}

// redactMySQLDSN handles "user:pass@tcp(host:3306)/db". The driver splits
// userinfo at the last '@' before the last '/', and the user name at the
// first ':'.
func redactMySQLDSN(raw string) string {
	cfg, err := mysql.ParseDSN(raw)
	if err != nil || cfg.Passwd == "" {
		return raw
	}

	slash := strings.LastIndex(raw, "/")
	if slash < 0 {
		return raw
	}

	at := strings.LastIndex(raw[:slash], "@")
	if at < 0 {
		return raw
	}

	colon := strings.Index(raw[:at], ":")
	if colon < 0 {
		return raw
	}

	return raw[:colon+1] + "***" + raw[at:]
}
