package apiconfig

import (
	"encoding/json"
	"testing"
)

func TestSelect(t *testing.T) {
	cases := []struct {
		host string
		env  Environment
		base string
	}{
		{"localhost", Local, DefaultURLs.Local},
		{"localhost:3008", Local, DefaultURLs.Local},
		{"127.0.0.1", Remote, DefaultURLs.Remote},
		{"LOCALHOST", Remote, DefaultURLs.Remote},
		{"medadhere.example.com", Remote, DefaultURLs.Remote},
		{"", Remote, DefaultURLs.Remote},
	}
	for _, tc := range cases {
		cfg := Select(tc.host, DefaultURLs)
		if cfg.Environment != tc.env {
			t.Errorf("%q: environment got %v want %v", tc.host, cfg.Environment, tc.env)
		}
		if cfg.BaseURL != tc.base {
			t.Errorf("%q: base url got %q want %q", tc.host, cfg.BaseURL, tc.base)
		}
	}
}

func TestSelectTrimsTrailingSlash(t *testing.T) {
	cfg := Select("localhost", URLs{Local: "http://localhost:9000/", Remote: "https://api"})
	if cfg.BaseURL != "http://localhost:9000" {
		t.Fatalf("base url got %q", cfg.BaseURL)
	}
}

func TestMarshalJSON(t *testing.T) {
	b, err := json.Marshal(Select("localhost", DefaultURLs))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"environment":   "Development",
		"baseURL":       "http://localhost:8010",
		"timeout":       float64(30000),
		"retryAttempts": float64(3),
		"retryDelay":    float64(1000),
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: got %v want %v", k, got[k], v)
		}
	}
}
