package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Teara-exe/starryCafeBot/appctx"
	"github.com/Teara-exe/starryCafeBot/config"
	"github.com/Teara-exe/starryCafeBot/core/log"
	"github.com/Teara-exe/starryCafeBot/handlers"
	"github.com/Teara-exe/starryCafeBot/metrics"
	"github.com/Teara-exe/starryCafeBot/utils"
)

type Options struct {
	EnvFile     string `long:"env-file" description:"Path to a .env file to load instead of ./.env"`
	Credentials string `long:"credentials" description:"Path to the file holding the bot token, used when DISCORD_TOKEN is unset"`
	LogLevel    string `long:"log-level" description:"Log level (debug, info, warn, error); overrides LOG_LEVEL"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Error("❌ Fatal error", "error", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfigWithOptions(config.LoadOptions{
		EnvFile:         opts.EnvFile,
		CredentialsFile: opts.Credentials,
	})
	if err != nil {
		return err
	}

	logLevel := cfg.LogLevel
	if opts.LogLevel != "" {
		logLevel = opts.LogLevel
	}
	log.SetLevel(log.ParseLevel(logLevel))

	instanceLock, err := utils.NewInstanceLock(cfg.LockFile)
	if err != nil {
		return err
	}
	if err := instanceLock.TryLock(); err != nil {
		return err
	}
	defer func() {
		if err := instanceLock.Unlock(); err != nil {
			log.Warn("⚠️ Failed to release instance lock", "path", instanceLock.Path(), "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := appctx.NewApp(cfg, clockwork.NewRealClock())
	if err != nil {
		return err
	}

	announcerCtx, cancelAnnouncer := context.WithCancel(context.Background())
	defer cancelAnnouncer()

	var announcer handlers.AnnouncerStarter
	if app.Announcer != nil {
		announcer = app.Announcer
	} else {
		log.Info("⚠️ Announcer not configured - periodic announcements disabled")
	}

	dispatcher := handlers.NewEventDispatcher(announcerCtx, app.Reactions, announcer)
	eventsHandler := handlers.NewDiscordEventsHandler(app.Session, dispatcher, app.Alerts)

	var server *http.Server
	if cfg.OpsPort != "" {
		router := mux.NewRouter()
		handlers.NewOpsHandler(registry, app.Tracking).SetupEndpoints(router)
		server = &http.Server{
			Addr:              ":" + cfg.OpsPort,
			Handler:           app.Alerts.HTTPMiddleware(router),
			ReadHeaderTimeout: 30 * time.Second,
		}
	}

	if err := eventsHandler.StartBot(); err != nil {
		return err
	}

	return handleGracefulShutdown(app, eventsHandler, cancelAnnouncer, server)
}

func handleGracefulShutdown(
	app *appctx.App,
	eventsHandler *handlers.DiscordEventsHandler,
	cancelAnnouncer context.CancelFunc,
	server *http.Server,
) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	if server != nil {
		go func() {
			log.Info("✅ Ops server listening", "addr", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("❌ Ops server error", "error", err)
			}
		}()
	}

	<-stop
	log.Info("🛑 Shutdown signal received, cleaning up...")

	cancelAnnouncer()
	eventsHandler.StopBot()
	if app.Announcer != nil {
		app.Announcer.Wait()
	}

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("❌ Ops server shutdown error", "error", err)
			return err
		}
	}

	app.Alerts.Wait()
	log.Info("✅ Bot stopped gracefully")
	return nil
}
