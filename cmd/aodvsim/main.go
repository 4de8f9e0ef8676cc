// Command aodvsim builds a random ad-hoc topology, runs the scenario
// driver against it for a configured number of steps, and prints the
// resulting routing and traffic statistics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kprusa/aodvsim/internal/config"
	"github.com/kprusa/aodvsim/internal/metrics"
	"github.com/kprusa/aodvsim/network"
	"github.com/kprusa/aodvsim/scenario"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML scenario config (defaults applied when omitted)")
	metricsAddr := flag.String("metrics-addr", "", "address to serve /metrics on, e.g. :9100 (overrides config)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	net := network.New()
	net.SetLogger(logger)
	if err := net.CreateRandom(cfg.Topology); err != nil {
		logger.Error("failed to build topology", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("topology built",
		slog.Int("nodes", net.NodeCount()),
		slog.Int("links", len(net.GetAllLinks())))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	if cfg.Metrics.Addr != "" {
		srv = startMetricsServer(ctx, logger, cfg.Metrics.Addr, net)
	}

	driver := scenario.New(net, cfg.Scenario)
	driver.Logger = logger
	logger.Info("running scenario", slog.Int("steps", cfg.Scenario.Steps))
	driver.Run()

	fmt.Println(net.StatsTable())

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", slog.Any("err", err))
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// startMetricsServer registers a Collector for net and serves /metrics on
// addr in the background until ctx is done.
func startMetricsServer(ctx context.Context, logger *slog.Logger, addr string, net *network.Network) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector(net))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("metrics server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.Any("err", err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv
}
