package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pable/go-hoops-stats/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOOPS_BACKEND", "")
	os.Unsetenv("HOOPS_BACKEND")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want sqlite", cfg.Backend)
	}
	if cfg.Port != 4000 || cfg.RemoteTimeout != 30*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.GameOrder != model.OrderByDate {
		t.Errorf("GameOrder = %q", cfg.GameOrder)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HOOPS_BACKEND", "remote")
	t.Setenv("HOOPS_REMOTE_URL", "http://localhost:4000")
	t.Setenv("HOOPS_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("HOOPS_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug || len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad port", map[string]string{"HOOPS_PORT": "not-an-int"}, "parse env:"},
		{"unknown backend", map[string]string{"HOOPS_BACKEND": "mongo"}, "unknown backend"},
		{"remote without url", map[string]string{"HOOPS_BACKEND": "remote", "HOOPS_REMOTE_URL": ""}, "HOOPS_REMOTE_URL"},
		{"bad order", map[string]string{"HOOPS_PLAYER_ORDER": "height"}, "player order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	t.Setenv(PortKey, "")
	t.Setenv("HOOPS_TEST_FLAG", "")
	t.Setenv("HOOPS_TEST_NAME", "")

	got := Wrap(map[string]string{
		PortKey:           "8080",
		"HOOPS_TEST_FLAG": "false",
		"HOOPS_TEST_NAME": "true-ish",
	})
	if got[PortKey] != 8080 {
		t.Errorf("port = %#v, want 8080", got[PortKey])
	}
	if got["HOOPS_TEST_FLAG"] != false {
		t.Errorf("flag = %#v, want false", got["HOOPS_TEST_FLAG"])
	}
	if got["HOOPS_TEST_NAME"] != "true-ish" {
		t.Errorf("name = %#v", got["HOOPS_TEST_NAME"])
	}
	if os.Getenv(PortKey) != "8080" || os.Getenv("HOOPS_TEST_FLAG") != "false" {
		t.Error("Wrap should export every key")
	}
}

func TestWrapEmpty(t *testing.T) {
	if got := Wrap(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}
