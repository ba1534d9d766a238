package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medadhere/frontend-server/backend"
	"github.com/medadhere/frontend-server/backend/access"
	"github.com/medadhere/frontend-server/backend/static"
	"github.com/medadhere/frontend-server/backend/store"
	"github.com/medadhere/frontend-server/backend/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

// run returns the process exit code: 1 when a listener or a configured
// database cannot be set up, 0 after a signal-driven shutdown.
func run() int {
	cfg := backend.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorders := access.Multi{}
	admin := backend.Admin{API: cfg.API}

	if cfg.DatabaseURL != "" {
		pool, err := store.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("db pool: %v", err)
			return 1
		}
		defer pool.Close()

		accessLog := store.NewAccessLog(pool)
		if err := accessLog.EnsureSchema(ctx); err != nil {
			log.Printf("db schema: %v", err)
			return 1
		}
		recorders = append(recorders, accessLog)
		admin.AccessLog = accessLog
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		client, err := store.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("redis: %v; access feed stays local to this instance", err)
		} else {
			rdb = client
			defer rdb.Close()
		}
	}

	hub := ws.NewHub(rdb, cfg.FeedSecret)
	defer hub.Close()
	recorders = append(recorders, hub)
	admin.Feed = http.HandlerFunc(hub.ServeWS)

	queue := access.NewQueue(recorders, 1024)

	files := static.New(cfg.Root, static.WithIndex(cfg.IndexDocument))
	srv, err := backend.Listen(fmt.Sprintf(":%d", cfg.Port), backend.LoggingMiddleware(files, queue))
	if err != nil {
		log.Printf("Frontend server error: %v", err)
		_ = queue.Close(context.Background())
		return 1
	}

	errCh := make(chan error, 2)
	go func() { errCh <- srv.Serve() }()
	log.Printf("Frontend server running on http://localhost:%d (root=%s)", cfg.Port, cfg.Root)

	var adminSrv *backend.Server
	if cfg.AdminPort != 0 {
		adminSrv, err = backend.Listen(fmt.Sprintf(":%d", cfg.AdminPort), backend.LoggingMiddleware(admin.Handler()))
		if err != nil {
			log.Printf("Admin server error: %v", err)
			_ = srv.Shutdown(context.Background())
			_ = queue.Close(context.Background())
			return 1
		}
		go func() { errCh <- adminSrv.Serve() }()
		log.Printf("Admin server running on http://localhost:%d", cfg.AdminPort)
	}

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Printf("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Printf("server error: %v", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("frontend shutdown: %v", err)
	}
	if adminSrv != nil {
		if err := adminSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("admin shutdown: %v", err)
		}
	}
	if err := queue.Close(shutdownCtx); err != nil {
		log.Printf("access queue: %v", err)
	}

	return exitCode
}
