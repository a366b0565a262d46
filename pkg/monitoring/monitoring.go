package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sevenseg/sevenseg/pkg/config"
	"github.com/sevenseg/sevenseg/pkg/logger"
)

type Monitoring struct {
	conf   config.Monitoring
	server *http.Server
	ln     net.Listener
	log    *logger.Logger
}

// New creates new monitoring service that exposes the metrics of reg.
func New(conf config.Monitoring, reg *prometheus.Registry, log *logger.Logger) *Monitoring {
	m := &Monitoring{conf: conf, log: log}
	m.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
	m.server.Handler = m.handler(reg)
	return m
}

func (m *Monitoring) handler(reg *prometheus.Registry) http.Handler {
	h := http.NewServeMux()

	if m.conf.ProfilingEnabled {
		prefix := fmt.Sprintf("%s/debug/pprof", m.conf.URLPrefix)
		m.log.Info().Msgf("Profiling is enabled at %v", m.server.Addr+prefix)
		h.HandleFunc(prefix+"/", pprof.Index)
		h.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
		h.HandleFunc(prefix+"/profile", pprof.Profile)
		h.HandleFunc(prefix+"/symbol", pprof.Symbol)
		h.HandleFunc(prefix+"/trace", pprof.Trace)
		// named profiles are not reachable through Index under a custom prefix
		for _, p := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
			h.Handle(prefix+"/"+p, pprof.Handler(p))
		}
	}

	if m.conf.MetricEnabled {
		metricPath := fmt.Sprintf("%s/metrics", m.conf.URLPrefix)
		m.log.Info().Msgf("Prometheus metric is enabled at %v", m.server.Addr+metricPath)
		h.Handle(metricPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	return h
}

// Handler is the mux with all enabled endpoints.
func (m *Monitoring) Handler() http.Handler { return m.server.Handler }

// Run starts listening and serves in the background.
func (m *Monitoring) Run() error {
	ln, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		return err
	}
	m.ln = ln
	m.log.Info().Msgf("Starting monitoring server at %v", ln.Addr())
	go func() {
		if err := m.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Error().Err(err).Msg("monitoring server")
		}
	}()
	return nil
}

// Addr is the bound address after Run.
func (m *Monitoring) Addr() string {
	if m.ln == nil {
		return m.server.Addr
	}
	return m.ln.Addr().String()
}

func (m *Monitoring) Shutdown(ctx context.Context) error {
	m.log.Info().Msg("Shutting down monitoring server")
	return m.server.Shutdown(ctx)
}

func (m *Monitoring) String() string {
	return fmt.Sprintf("monitoring::%s:%d", m.conf.URLPrefix, m.conf.Port)
}
