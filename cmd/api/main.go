package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vendordesk/internal/audit"
	"vendordesk/internal/availability"
	"vendordesk/internal/dashboard"
	"vendordesk/internal/httpapi"
	"vendordesk/internal/modal"
	vsignal "vendordesk/internal/signal"
	"vendordesk/pkg/config"
	"vendordesk/pkg/db"
	"vendordesk/pkg/logger"
	"vendordesk/pkg/vendorapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder modal.Recorder = audit.Discard{}
	if cfg.DatabaseEnabled() {
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer conn.Close()

		if cfg.MigrationsPath != "" {
			if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
				log.Fatalf("migrate: %v", err)
			}
		}
		recorder = audit.NewRepository(conn)
	} else {
		log.Printf("no database configured; flow audit trail disabled")
	}

	client := vendorapi.New(cfg.VendorAPI)

	dash := dashboard.New(ctx, client, nil, lg)
	if err := dash.Reload(ctx); err != nil {
		// The console still starts; the dashboard can reload later.
		log.Printf("initial booking reload: %v", err)
	}

	sinks := vsignal.Fanout{dash.Signals()}
	if strings.TrimSpace(cfg.NATSURL) != "" {
		bus, err := vsignal.ConnectNATS(cfg.NATSURL, cfg.NATSSubjectPrefix, lg)
		if err != nil {
			log.Fatalf("nats: %v", err)
		}
		defer bus.Close()
		sinks = append(sinks, bus)
	}

	orch := modal.New(modal.Config{
		Store:                    dash.Store(),
		API:                      client,
		Signals:                  sinks,
		Recorder:                 recorder,
		Log:                      lg,
		PaymentCancelReloadDelay: cfg.PaymentCancelReloadDelay,
	})

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:       cfg,
		Log:       lg,
		Modal:     orch,
		Dashboard: dash,
		Calendar:  &availability.Aggregator{API: client},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("http listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
	dash.Wait()
}
