// Package connstring parses ADO.NET-style database connection strings, the
// semicolon-delimited "key=value" text that Azure App Service hands to an
// application, e.g.
//
//	Server=tcp:myserver.database.windows.net,1433;Database=contacts;User Id=app;Password=secret
//
// Only the keys needed to reach the database are understood. Everything else
// (Encrypt, TrustServerCertificate, Connection Timeout ...) is ignored and
// encryption is always requested.
package connstring

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPort is the SQL Server port used when the string does not name one
// or names one that is not a positive integer.
const DefaultPort = 1433

// ErrMissing is returned by Resolve when no connection string is available.
var ErrMissing = errors.New("connection string is not set")

// Config is the structured form of a connection string.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string

	// Encrypt is always true; parsed strings cannot turn it off.
	Encrypt bool

	// ExplicitPort reports whether Port came from the string rather than
	// from DefaultPort.
	ExplicitPort bool
}

// Resolve parses raw, or returns ErrMissing if raw is empty.
func Resolve(raw string) (Config, error) {
	if strings.TrimSpace(raw) == "" {
		return Config{}, ErrMissing
	}
	return Parse(raw), nil
}

// Parse splits raw into its recognised parts. Keys are matched
// case-insensitively, pairs with an empty key or value are skipped and
// unknown keys are ignored. Values are split on the first "=" only, so a
// password may itself contain "=".
func Parse(raw string) Config {
	cfg := Config{
		Port:    DefaultPort,
		Encrypt: true,
	}

	for _, part := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" || value == "" {
			continue
		}

		switch key {
		case "server", "data source":
			cfg.Host, cfg.Port, cfg.ExplicitPort = parseServer(value)
		case "initial catalog", "database":
			cfg.Database = value
		case "user id", "uid":
			cfg.User = value
		case "password", "pwd":
			cfg.Password = value
		}
	}

	return cfg
}

// parseServer handles "tcp:host,port", "host,port" and "host".
func parseServer(value string) (host string, port int, explicit bool) {
	value = strings.TrimSpace(value)
	if len(value) >= 4 && strings.EqualFold(value[:4], "tcp:") {
		value = value[4:]
	}

	host, portStr, hasPort := strings.Cut(value, ",")
	if !hasPort {
		return host, DefaultPort, false
	}

	port, err := strconv.Atoi(strings.TrimSpace(portStr))
	if err != nil || port <= 0 {
		return host, DefaultPort, false
	}
	return host, port, true
}

// URL renders the config as a sqlserver:// URL understood by go-mssqldb.
func (c Config) URL() string {
	q := url.Values{}
	if c.Database != "" {
		q.Set("database", c.Database)
	}
	q.Set("encrypt", strconv.FormatBool(c.Encrypt))

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		RawQuery: q.Encode(),
	}
	return u.String()
}

// String is safe to log: the password is never included.
func (c Config) String() string {
	return fmt.Sprintf("Server=%s, Port=%d, DB=%s, User=%s", c.Host, c.Port, c.Database, c.User)
}
