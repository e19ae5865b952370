package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/mailchimp-bridge/internal/api"
	"github.com/ignite/mailchimp-bridge/internal/config"
	"github.com/ignite/mailchimp-bridge/internal/mailchimp"
	"github.com/ignite/mailchimp-bridge/internal/pkg/distlock"
	"github.com/ignite/mailchimp-bridge/internal/pkg/logger"
	"github.com/ignite/mailchimp-bridge/internal/repository/postgres"
	"github.com/ignite/mailchimp-bridge/internal/service"
	"github.com/ignite/mailchimp-bridge/internal/service/list"
	"github.com/ignite/mailchimp-bridge/internal/service/member"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %w", port, addr, err)
	}
	ln.Close()
	return nil
}

func fatal(msg string, kv ...interface{}) {
	logger.Error(msg, kv...)
	os.Exit(1)
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		fatal("failed to load config", "error", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	logger.SetRedactPII(!cfg.Log.DisableRedaction)

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		fatal("pre-flight check failed", "error", err)
	}

	if cfg.Database.URL == "" {
		fatal("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		fatal("failed to open database", "error", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime())

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		pingCancel()
		fatal("database unreachable", "error", err)
	}
	pingCancel()
	logger.Info("connected to database")

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient = connectRedis(cfg.Redis.URL)
	}

	mc, err := mailchimp.NewClient(mailchimp.Config{
		APIKey:  cfg.MailChimp.APIKey,
		BaseURL: cfg.MailChimp.BaseURL,
		Timeout: cfg.MailChimp.Timeout(),
	})
	if err != nil {
		fatal("invalid MailChimp configuration", "error", err)
	}
	logger.Info("MailChimp client ready", "base_url", mc.BaseURL())

	var locker service.Locker = distlock.Nop{}
	if cfg.Locking.Enabled {
		locker = distlock.NewManager(redisClient, db, cfg.Locking.TTL(), cfg.Locking.Wait(), cfg.Locking.RetryInterval())
		backend := "postgres advisory"
		if redisClient != nil {
			backend = "redis"
		}
		logger.Info("member locks enabled", "backend", backend)
	}

	listRepo := postgres.NewListRepo(db)
	memberRepo := postgres.NewMemberRepo(db)
	handlers := api.NewHandlers(
		list.NewService(listRepo, mc, locker),
		member.NewService(memberRepo, listRepo, mc, locker),
	)
	server := api.NewServer(cfg.Server, handlers, api.NewHealthChecker(db, redisClient, mc))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, cfg.Server.Port)
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			fatal("server error", "error", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("server stopped")
}

// connectRedis returns a client for url, or nil when Redis cannot be reached;
// locks then fall back to Postgres advisory locks.
func connectRedis(url string) *redis.Client {
	opts, err := redis.ParseURL(url)
	var client *redis.Client
	if err != nil {
		client = redis.NewClient(&redis.Options{Addr: url})
	} else {
		client = redis.NewClient(opts)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, falling back to postgres locks", "error", err)
		client.Close()
		return nil
	}
	logger.Info("connected to redis")
	return client
}
