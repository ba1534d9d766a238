package backend

import (
	"testing"

	"github.com/medadhere/frontend-server/backend/apiconfig"
)

func TestParsePort(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", DefaultPort},
		{"4000", 4000},
		{"0", 0},
		{"abc", DefaultPort},
		{"3008abc", DefaultPort},
		{"-1", DefaultPort},
		{"70000", DefaultPort},
		{" 4000", DefaultPort},
	}
	for _, tc := range cases {
		if got := ParsePort(tc.in, DefaultPort); got != tc.want {
			t.Errorf("ParsePort(%q) got %d want %d", tc.in, got, tc.want)
		}
	}
}

func envFunc(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg := ConfigFromEnv(envFunc(nil))
	if cfg.Port != 3008 {
		t.Errorf("port got %d want 3008", cfg.Port)
	}
	if cfg.Root != "." || cfg.IndexDocument != "index.html" {
		t.Errorf("root/index got %q/%q", cfg.Root, cfg.IndexDocument)
	}
	if cfg.AdminPort != 0 || cfg.DatabaseURL != "" || cfg.RedisURL != "" {
		t.Errorf("optional listeners should be off: %+v", cfg)
	}
	if cfg.API != apiconfig.DefaultURLs {
		t.Errorf("api urls got %+v", cfg.API)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	cfg := ConfigFromEnv(envFunc(map[string]string{
		"PORT":           "8081",
		"STATIC_ROOT":    "/srv/frontend",
		"INDEX_DOCUMENT": "home.html",
		"ADMIN_PORT":     "9001",
		"WS_SECRET":      "s3cret",
		"DATABASE_URL":   "postgres://localhost/frontend",
		"REDIS_URL":      "redis://localhost:6379/0",
		"API_LOCAL_URL":  "http://localhost:9000",
		"API_REMOTE_URL": "https://api.example.com",
	}))
	want := Config{
		Port:          8081,
		Root:          "/srv/frontend",
		IndexDocument: "home.html",
		AdminPort:     9001,
		FeedSecret:    "s3cret",
		DatabaseURL:   "postgres://localhost/frontend",
		RedisURL:      "redis://localhost:6379/0",
		API:           apiconfig.URLs{Local: "http://localhost:9000", Remote: "https://api.example.com"},
	}
	if cfg != want {
		t.Fatalf("got %+v\nwant %+v", cfg, want)
	}
}
