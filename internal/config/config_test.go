package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func TestValidate_DriverRequirements(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseConfig
		wantErr string
	}{
		{"sqlite ok", DatabaseConfig{Driver: DriverSQLite, Path: "x.db"}, ""},
		{"sqlite without path", DatabaseConfig{Driver: DriverSQLite}, "database.path"},
		{"redis ok", DatabaseConfig{Driver: DriverRedis, Addrs: []string{"localhost:6379"}}, ""},
		{"redis without addrs", DatabaseConfig{Driver: DriverRedis}, "database.addrs"},
		{"memory inverted", DatabaseConfig{Driver: DriverMemory, MemoryIndex: IndexInverted}, ""},
		{"memory bleve", DatabaseConfig{Driver: DriverMemory, MemoryIndex: IndexBleve}, ""},
		{"memory unknown index", DatabaseConfig{Driver: DriverMemory, MemoryIndex: "lucene"}, "database.memory_index"},
		{"unknown driver", DatabaseConfig{Driver: "valkey"}, "database.driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{HTTP: HTTPConfig{Port: 8080}, Database: tt.db}
			cfg.Search = SearchConfig{DefaultLimit: 10, MaxLimit: 10}
			err := cfg.Validate()
			switch {
			case tt.wantErr == "" && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tt.wantErr != "" && err == nil:
				t.Fatal("expected error")
			case tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr):
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 0},
		Database: DatabaseConfig{Driver: DriverRedis},
		Search:   SearchConfig{DefaultLimit: 50, MaxLimit: 10},
		Logging:  LoggingConfig{Format: "xml"},
	}

	err := cfg.Validate()
	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("expected *multierror.Error, got %T (%v)", err, err)
	}
	if len(merr.Errors) != 4 {
		t.Errorf("expected 4 violations, got %d: %v", len(merr.Errors), merr)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("expected Driver=sqlite, got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Database.BusyTimeoutMS != 5000 {
		t.Errorf("expected BusyTimeoutMS=5000, got %d", cfg.Database.BusyTimeoutMS)
	}
	if cfg.Database.MemoryIndex != IndexInverted {
		t.Errorf("expected MemoryIndex=inverted, got %q", cfg.Database.MemoryIndex)
	}
	if cfg.Search.DefaultLimit != 200 {
		t.Errorf("expected DefaultLimit=200, got %d", cfg.Search.DefaultLimit)
	}
	if cfg.Search.MaxLimit != 1000 {
		t.Errorf("expected MaxLimit=1000, got %d", cfg.Search.MaxLimit)
	}
	if cfg.Search.Overfetch != 5 {
		t.Errorf("expected Overfetch=5, got %d", cfg.Search.Overfetch)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{Driver: DriverRedis, ReadinessTimeout: 15, MemoryIndex: IndexBleve},
		Search:   SearchConfig{DefaultLimit: 20, MaxLimit: 100, Overfetch: 3},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Driver != DriverRedis || cfg.Database.MemoryIndex != IndexBleve {
		t.Errorf("database overridden: %+v", cfg.Database)
	}
	if cfg.Search != (SearchConfig{DefaultLimit: 20, MaxLimit: 100, Overfetch: 3}) {
		t.Errorf("search overridden: %+v", cfg.Search)
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("MEMEDEX_TEST_PORT", "9090")
	data := []byte(`
http:
  port: ${MEMEDEX_TEST_PORT}
database:
  driver: memory
  memory_index: ${MEMEDEX_TEST_UNSET:-bleve}
auth:
  api_keys: ["k1"]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.Database.MemoryIndex != IndexBleve {
		t.Errorf("memory_index = %q", cfg.Database.MemoryIndex)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "k1" {
		t.Errorf("api keys = %v", cfg.Auth.APIKeys)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\ndatabase:\n  driver: nope\n")); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("HTTP_PORT", "")
	cfg, err := Load("local")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database.Driver != DriverMemory || cfg.HTTP.Port != 8080 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoad_PathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("http:\n  port: 9191\ndatabase:\n  driver: memory\n  memory_index: bleve\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(PathEnvVar, path)

	cfg, err := Load("prod")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Port != 9191 || cfg.Database.MemoryIndex != IndexBleve {
		t.Errorf("override file not used: %+v", cfg)
	}
}
