// Package observability boots the optional tracing, continuous
// profiling, and pprof endpoints, and tears them down in reverse order.
package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/matchpulse/matchpulse/internal/config"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

const pprofShutdownTimeout = 5 * time.Second

// Stack holds whatever subset of the observability surface the config
// enabled. Disabled pieces stay nil and Stop skips them.
type Stack struct {
	logger *logging.Logger

	pprofServer   *http.Server
	stopProfiler  func() error
	shutdownTrace func(context.Context) error
}

// Start brings up tracing, then the profiler, then the pprof listener.
// A failure tears down whatever already started.
func Start(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger}

	s.startTracing(cfg)
	if err := s.startProfiler(cfg); err != nil {
		s.Stop(context.Background())
		return nil, err
	}
	s.startPprof(cfg)

	return s, nil
}

// Stop shuts the stack down in reverse start order. Safe on a nil Stack
// and on a Stack whose pieces never started.
func (s *Stack) Stop(ctx context.Context) {
	if s == nil {
		return
	}

	if s.pprofServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, pprofShutdownTimeout)
		if err := s.pprofServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("stop pprof server", "error", err)
		}
		cancel()
	}
	if s.stopProfiler != nil {
		if err := s.stopProfiler(); err != nil {
			s.logger.Error("stop profiler", "error", err)
		}
	}
	if s.shutdownTrace != nil {
		if err := s.shutdownTrace(ctx); err != nil {
			s.logger.Error("shutdown tracing", "error", err)
		}
	}
}

func (s *Stack) startTracing(cfg config.Config) {
	if !cfg.UptraceEnabled || strings.TrimSpace(cfg.UptraceDSN) == "" {
		s.logger.Info("tracing disabled")
		return
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	s.shutdownTrace = uptrace.Shutdown

	s.logger.Info("tracing enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
	)
}

func (s *Stack) startProfiler(cfg config.Config) error {
	if !cfg.PyroscopeEnabled {
		s.logger.Info("profiler disabled")
		return nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              map[string]string{"env": cfg.AppEnv, "service": cfg.ServiceName},
		ProfileTypes:      profileTypes,
	})
	if err != nil {
		return err
	}
	s.stopProfiler = profiler.Stop

	s.logger.Info("profiler enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
	)
	return nil
}

func (s *Stack) startPprof(cfg config.Config) {
	if !cfg.PprofEnabled {
		s.logger.Info("pprof disabled")
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	s.pprofServer = &http.Server{
		Addr:              cfg.PprofAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger := s.logger
	srv := s.pprofServer
	go func() {
		logger.Info("pprof server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "error", err)
		}
	}()
}

var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexCount,
	pyroscope.ProfileMutexDuration,
	pyroscope.ProfileBlockCount,
	pyroscope.ProfileBlockDuration,
}
