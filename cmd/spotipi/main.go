// Command spotipi is the SpotiPi appliance daemon: a web-controlled Spotify
// player for Raspberry Pi with first-boot setup for audio output and WiFi.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Vincent1Vincent2/spotipi-go/internal/api"
	"github.com/Vincent1Vincent2/spotipi-go/internal/bootcfg"
	"github.com/Vincent1Vincent2/spotipi-go/internal/config"
	"github.com/Vincent1Vincent2/spotipi-go/internal/events"
	"github.com/Vincent1Vincent2/spotipi-go/internal/poller"
	"github.com/Vincent1Vincent2/spotipi-go/internal/session"
	"github.com/Vincent1Vincent2/spotipi-go/internal/spotify"
	"github.com/Vincent1Vincent2/spotipi-go/internal/system"
	"github.com/Vincent1Vincent2/spotipi-go/internal/wifi"
	"github.com/Vincent1Vincent2/spotipi-go/internal/wizard"
	"github.com/Vincent1Vincent2/spotipi-go/internal/zeroconf"
)

const version = "1.0.0"

func main() {
	var (
		addr       = flag.String("addr", ":8000", "HTTP listen address")
		cfgPath    = flag.String("config", config.DefaultPath, "configuration file path")
		stateDir   = flag.String("state-dir", "", "state directory for tokens (default: ~/.local/state/spotipi)")
		bootConfig = flag.String("boot-config", bootcfg.DefaultPath, "boot configuration file to patch")
		wpaConfig  = flag.String("wpa-config", wifi.DefaultPath, "WPA supplicant file to write")
		envFile    = flag.String("env", "", "development .env file to keep in sync (empty to disable)")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	// Configure logging
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// Resolve state directory
	if *stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("cannot determine home directory", "err", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(home, ".local", "state", "spotipi")
	}
	if err := os.MkdirAll(*stateDir, 0700); err != nil {
		slog.Error("cannot create state directory", "path", *stateDir, "err", err)
		os.Exit(1)
	}

	// Graceful shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Config store with live reload
	store, err := config.NewTOMLStore(*cfgPath)
	if err != nil {
		slog.Error("config store initialization failed", "path", *cfgPath, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	// Spotify client and session store
	sessions := session.NewStore(*stateDir)
	client := spotify.New(store, sessions)

	// Boot config patcher, WiFi writer, setup wizard
	fs := bootcfg.OSFileAccess{}
	patcher := bootcfg.NewPatcher(fs, *bootConfig)
	wifiCfg := wifi.NewConfigurator(fs, *wpaConfig)
	wiz := wizard.New(store, patcher, wifiCfg, bootcfg.OverridesFromEnv(), *envFile, slog.Default())

	// System info and reboot
	sys := system.New(version, slog.Default())
	slog.Info("system", "hostname", sys.Hostname(), "pi_model", sys.PiModel(), "kernel", sys.Kernel())

	// Event bus and background pollers
	bus := events.NewBus()
	poll := poller.New(client, bus, slog.Default())
	go poll.Start(ctx)

	// Zeroconf mDNS registration
	hostname := sys.Hostname()
	port := 8000
	if parts := strings.SplitN(*addr, ":", 2); len(parts) == 2 && parts[1] != "" {
		if p, err := strconv.Atoi(parts[1]); err == nil {
			port = p
		}
	}
	zc := zeroconf.New(hostname, port, version)
	go func() {
		if err := zc.Start(ctx); err != nil {
			slog.Warn("zeroconf failed", "err", err)
		}
	}()

	// HTTP server
	router := api.NewRouter(api.Deps{
		Player: client,
		Auth:   client,
		Wizard: wiz,
		System: sys,
		Events: bus,
		Scan:   wifi.Scan,
		Configured: func() bool {
			cfg, err := store.Load()
			return err == nil && cfg.IsConfigured()
		},
		Online: poller.Online,
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("SpotiPi listening", "addr", *addr, "config", *cfgPath, "boot_config", *bootConfig)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("server shutdown error", "err", err)
	}

	slog.Info("shutdown complete")
}
