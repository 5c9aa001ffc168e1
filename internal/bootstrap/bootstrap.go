// Package bootstrap wires configuration, storage, domain services and the
// HTTP transport into a running server.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kei-test/mega/internal/domain/access"
	"github.com/kei-test/mega/internal/domain/attendance"
	"github.com/kei-test/mega/internal/domain/audit"
	"github.com/kei-test/mega/internal/domain/auth"
	"github.com/kei-test/mega/internal/domain/experience"
	"github.com/kei-test/mega/internal/domain/history"
	"github.com/kei-test/mega/internal/domain/notify"
	"github.com/kei-test/mega/internal/platform/config"
	"github.com/kei-test/mega/internal/platform/errors"
	"github.com/kei-test/mega/internal/platform/logging"
	"github.com/kei-test/mega/internal/platform/storage"
	httptransport "github.com/kei-test/mega/internal/transport/http"
	"github.com/kei-test/mega/internal/transport/http/webapi"
)

// Run starts the server and blocks until the context is cancelled or a
// termination signal arrives.
func Run(ctx context.Context) error {
	const op = "bootstrap.run"

	loaded, err := config.NewLoader().Load()
	if err != nil {
		return errors.Wrap(errors.KindBootstrap, op, "load config", err)
	}
	cfg := loaded.Config

	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})
	if err != nil {
		return errors.Wrap(errors.KindBootstrap, op, "init logging", err)
	}
	defer logger.Close()
	slogger := logger.Slog()
	slogger.Info("configuration loaded", "path", loaded.Path)

	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}

	users := storage.NewUserRepository(db)
	wallets := storage.NewWalletRepository(db)
	levels := storage.NewLevelRepository(db)
	blocklist := storage.NewBlocklistRepository(db)
	allowlist := storage.NewAllowlistRepository(db)
	historyStore := storage.NewHistoryStore(db)
	expRepo := storage.NewExperienceRepository(db)
	auditStore := storage.NewAuditStore(db)
	attendanceRepo := storage.NewAttendanceRepository(db)

	if cfg.Auth.AdminUsername != "" {
		adminHash, err := auth.HashPassword(cfg.Auth.AdminPassword, cfg.Auth.BcryptCost)
		if err != nil {
			return errors.Wrap(errors.KindBootstrap, op, "hash seed password", err)
		}
		if err := storage.EnsureAdmin(db, cfg.Auth.AdminUsername, adminHash, cfg.Auth.AdminApproveIP); err != nil {
			return err
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slogger.Warn("redis unreachable, blocklist cache disabled", "error", err)
			redisClient.Close()
			redisClient = nil
		}
	}

	var blocklistReader access.BlocklistReader = access.DirectBlocklist{Repo: blocklist}
	var cache *access.CachedBlocklist
	if redisClient != nil {
		cache = access.NewCachedBlocklist(blocklist, redisClient, cfg.Redis.Prefix, cfg.Redis.TTL, slogger)
		blocklistReader = cache
	}
	gate := access.NewGate(blocklistReader, allowlist, slogger)

	var mirror *notify.Mirror
	var mirrorPub history.MirrorPublisher
	if cfg.Mirror.Enabled && cfg.Mirror.URL != "" {
		mirror = notify.NewMirror(notify.MirrorOptions{
			URL:         cfg.Mirror.URL,
			Workers:     cfg.Mirror.Workers,
			DialTimeout: cfg.Mirror.DialTimeout,
		}, slogger)
		defer mirror.Close()
		mirrorPub = mirror
	}

	recorder, err := history.NewRecorder(evbus.New(), historyStore, mirrorPub, slogger)
	if err != nil {
		return errors.Wrap(errors.KindBootstrap, op, "init recorder", err)
	}

	expService := experience.NewService(expRepo, users, wallets, levels, experience.Rules{
		MilestoneUnit:  cfg.Experience.MilestoneUnit,
		MilestoneBonus: cfg.Experience.MilestoneBonus,
		DailyCap:       cfg.Experience.DailyCap,
	}, slogger)

	tokens, err := auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		return errors.Wrap(errors.KindBootstrap, op, "init token issuer", err)
	}

	var geo auth.GeoResolver
	if cfg.GeoIP.Endpoint != "" {
		geo = auth.NewHTTPGeoResolver(cfg.GeoIP.Endpoint, cfg.GeoIP.Timeout, slogger)
	}

	authService := auth.NewService(users, wallets, gate, auth.BcryptVerifier{},
		tokens, recorder, expService, geo, slogger)
	auditor := audit.NewRecorder(auditStore, slogger)
	attendanceService := attendance.NewService(attendanceRepo, expService, slogger)

	router, err := httptransport.Build(httptransport.Options{
		Config:     cfg,
		Logger:     slogger,
		StaticRoot: cfg.Web.StaticDir,
	})
	if err != nil {
		return err
	}

	webapi.NewAuthService(authService, slogger).Register(router.API)

	secured := router.API.Group("")
	secured.Use(httptransport.AuthMiddleware(tokens, users))
	webapi.NewMemberService(attendanceService, slogger).Register(secured)

	admin := secured.Group("/admin")
	admin.Use(httptransport.AdminMiddleware(), httptransport.AuditContextMiddleware())
	webapi.NewAdminService(blocklist, allowlist, cache, historyStore, expService, auditor, slogger).Register(admin)
	webapi.NewSystemService(slogger).Register(admin)

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.IP, cfg.Server.Port),
		Handler: router.Engine,
	}

	group, groupCtx := errgroup.WithContext(signalCtx)
	group.Go(func() error {
		slogger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.KindBootstrap, op, "http server", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slogger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
