package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	t.Setenv("PROVIDER_TOKEN", "token")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_ProviderTokenRequired(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROVIDER_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PROVIDER_TOKEN is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROVIDER_TOKEN", "token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FetchConcurrency != 4 {
		t.Fatalf("unexpected default fetch concurrency: %d", cfg.FetchConcurrency)
	}
	if cfg.IngestInterval != 15*time.Minute {
		t.Fatalf("unexpected default ingest interval: %s", cfg.IngestInterval)
	}
	if cfg.LiveInterval != 5*time.Minute {
		t.Fatalf("unexpected default live interval: %s", cfg.LiveInterval)
	}
	if cfg.ZombieAfter != 3*time.Hour {
		t.Fatalf("unexpected default zombie threshold: %s", cfg.ZombieAfter)
	}
	if cfg.FutureTolerance != 15*time.Minute {
		t.Fatalf("unexpected default future tolerance: %s", cfg.FutureTolerance)
	}
	if cfg.DetailCacheTTL != 6*time.Hour {
		t.Fatalf("unexpected default detail cache ttl: %s", cfg.DetailCacheTTL)
	}
	if cfg.StandingsNegativeLimit != 6 {
		t.Fatalf("unexpected default standings negative limit: %d", cfg.StandingsNegativeLimit)
	}
	if !cfg.DBDisablePreparedBinary {
		t.Fatalf("expected DBDisablePreparedBinary=true by default")
	}
}

func TestLoad_ProviderOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROVIDER_TOKEN", "token")
	t.Setenv("PROVIDER_BASE_URL", "https://stage.provider.example/v1")
	t.Setenv("PROVIDER_TIMEOUT", "10s")
	t.Setenv("PROVIDER_MAX_RETRIES", "5")
	t.Setenv("PROVIDER_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("PROVIDER_CIRCUIT_OPEN_TIMEOUT", "45s")
	t.Setenv("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ProviderBaseURL != "https://stage.provider.example/v1" {
		t.Fatalf("unexpected provider base url: %q", cfg.ProviderBaseURL)
	}
	if cfg.ProviderTimeout != 10*time.Second {
		t.Fatalf("unexpected provider timeout: %s", cfg.ProviderTimeout)
	}
	if cfg.ProviderMaxRetries != 5 {
		t.Fatalf("unexpected provider max retries: %d", cfg.ProviderMaxRetries)
	}
	if cfg.ProviderCircuitFailureCount != 3 {
		t.Fatalf("unexpected circuit failure count: %d", cfg.ProviderCircuitFailureCount)
	}
	if cfg.ProviderCircuitOpenTimeout != 45*time.Second {
		t.Fatalf("unexpected circuit open timeout: %s", cfg.ProviderCircuitOpenTimeout)
	}
	if cfg.ProviderCircuitHalfOpenMaxReq != 1 {
		t.Fatalf("unexpected circuit half-open max: %d", cfg.ProviderCircuitHalfOpenMaxReq)
	}
}

func TestLoad_InvalidDurationRejected(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROVIDER_TOKEN", "token")
	t.Setenv("ZOMBIE_AFTER", "three hours")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid ZOMBIE_AFTER")
	}
}

func TestLoad_FetchConcurrencyBounds(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROVIDER_TOKEN", "token")
	t.Setenv("FETCH_CONCURRENCY", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error for FETCH_CONCURRENCY=0")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROVIDER_TOKEN", "token")
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROVIDER_TOKEN", "token")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROVIDER_TOKEN", "token")
	t.Setenv("APP_SERVICE_NAME", "matchpulse-ingest-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "matchpulse-ingest-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROVIDER_TOKEN", "token")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROVIDER_TOKEN", "token")
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel.String())
	}
}
