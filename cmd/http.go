package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"runtime/pprof"
	"time"

	"turnos/core/admin"
	"turnos/core/binder"
	"turnos/core/catalog"
	"turnos/core/validate"
	"turnos/core/workflow"
	inboundCron "turnos/inbound/cron"
	inboundHttp "turnos/inbound/http"
	"turnos/outbound/backend"
	"turnos/outbound/cache"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func runHttpServerCmd(ctx context.Context) {
	cfg := newCfg("env")

	if cfg.GetString("env") == "dev" {
		cpu, err := os.Create("http-cpu.prof")
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer cpu.Close()

		err = pprof.StartCPUProfile(cpu)
		if err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	shutdownTracing := newTracing(ctx, cfg)
	defer shutdownTracing()

	validator := validate.New()

	cacheClient := newRedis(cfg)
	defer cacheClient.Close()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	createStreamWorkQueue(ctx, js)

	client := backend.NewFromConfig(cfg)
	catalogCache := cache.NewCatalogCache(cacheClient, cfg.GetDuration("catalog.cache_ttl"))
	guard := cache.NewRedisGuard(cacheClient, cfg.GetDuration("turno.lock_ttl"))
	sessions := cache.NewLocatedStore(cacheClient, cfg.GetDuration("turno.session_ttl"))

	// Both stores share one snapshot per category, so admin edits invalidate
	// what the intake form sees.
	adminCatalogs := catalog.NewStore(client, catalogCache, validator)
	publicCatalogs := catalog.NewStore(backend.PublicCatalogs{Client: client}, catalogCache, validator)
	publicBinder := binder.New(publicCatalogs)

	wf := workflow.New(client, validator, publicBinder,
		workflow.WithGuard(guard),
		workflow.WithPublisher(js),
	)
	console := admin.NewConsole(client, validator, binder.New(adminCatalogs), guard, js)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "health check")
		w.WriteHeader(http.StatusOK)
	})

	timeoutMiddleware := inboundHttp.TimeoutMiddleware(20 * time.Second)
	corsMiddleware := inboundHttp.CorsMiddleware(cfg.GetStringSlice("server.cors_origins"))

	inboundHttp.RegisterTurnoHttp(mux, wf, sessions)
	inboundHttp.RegisterCatalogHttp(mux, adminCatalogs, publicBinder)
	inboundHttp.RegisterAdminHttp(mux, console, client, adminCatalogs)

	catalogCron := &inboundCron.CatalogCron{
		Cfg:     cfg,
		Catalog: publicCatalogs,
	}

	handler := otelhttp.NewHandler(inboundHttp.CookieMiddleware(mux), "turnos-http")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.GetInt("server.port")),
		Handler:           timeoutMiddleware(corsMiddleware(handler)),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalln("unable to start server", err)
		}
	}()

	slog.Info("http server started")

	go func() {
		catalogCron.Start(ctx)
	}()

	<-ctx.Done()

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Fatalln("unable to shutdown server", err)
	}

	slog.Info("http server stopped")
}
