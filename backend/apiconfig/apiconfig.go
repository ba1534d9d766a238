// Package apiconfig models the browser's API client settings: which backend
// base URL to call and how patiently to call it.
package apiconfig

import (
	"encoding/json"
	"net"
	"strings"
	"time"
)

// LocalHostname is the only hostname treated as local development.
const LocalHostname = "localhost"

const (
	DefaultTimeout       = 30 * time.Second
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = time.Second
)

type Environment int

const (
	Local Environment = iota
	Remote
)

func (e Environment) String() string {
	if e == Local {
		return "Development"
	}
	return "Production"
}

// URLs holds the base URL for each environment.
type URLs struct {
	Local  string
	Remote string
}

var DefaultURLs = URLs{
	Local:  "http://localhost:8010",
	Remote: "https://medadhere-backend-azc7a8eyd8ggbadx.centralindia-01.azurewebsites.net",
}

// Config is built once and never mutated.
type Config struct {
	Environment   Environment
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// Detect picks the environment for hostname. Any port suffix is ignored.
func Detect(hostname string) Environment {
	if host, _, err := net.SplitHostPort(hostname); err == nil {
		hostname = host
	}
	if hostname == LocalHostname {
		return Local
	}
	return Remote
}

// Select returns the client configuration for a browser on hostname.
func Select(hostname string, urls URLs) Config {
	env := Detect(hostname)
	base := urls.Remote
	if env == Local {
		base = urls.Local
	}
	return Config{
		Environment:   env,
		BaseURL:       strings.TrimRight(base, "/"),
		Timeout:       DefaultTimeout,
		RetryAttempts: DefaultRetryAttempts,
		RetryDelay:    DefaultRetryDelay,
	}
}

// MarshalJSON renders the shape config.js exposes as window.API_CONFIG,
// durations in milliseconds.
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Environment   string `json:"environment"`
		BaseURL       string `json:"baseURL"`
		Timeout       int64  `json:"timeout"`
		RetryAttempts int    `json:"retryAttempts"`
		RetryDelay    int64  `json:"retryDelay"`
	}{
		Environment:   c.Environment.String(),
		BaseURL:       c.BaseURL,
		Timeout:       c.Timeout.Milliseconds(),
		RetryAttempts: c.RetryAttempts,
		RetryDelay:    c.RetryDelay.Milliseconds(),
	})
}
