package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/bigkaa/fileinfo/internal/api/handlers"
	"github.com/bigkaa/fileinfo/internal/api/middleware"
	"github.com/bigkaa/fileinfo/internal/config"
	"github.com/bigkaa/fileinfo/internal/database"
	"github.com/bigkaa/fileinfo/internal/repository"
	"github.com/bigkaa/fileinfo/internal/server"
	"github.com/bigkaa/fileinfo/internal/service"
	uihandlers "github.com/bigkaa/fileinfo/internal/ui/handlers"
	"github.com/bigkaa/fileinfo/internal/ui/i18n"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP-сервер страницы отчётов",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// bootstrap — общая для serve и report инициализация: конфигурация,
// логирование, миграции и пул соединений PostgreSQL.
func bootstrap(ctx context.Context) (*config.Config, *slog.Logger, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("загрузка конфигурации: %w", err)
	}

	logger := config.SetupLogger(cfg)

	// Миграции создают схему LMS только для dev/test окружений.
	if cfg.DBMigrate {
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			return nil, nil, nil, fmt.Errorf("миграции БД: %w", err)
		}
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("подключение к PostgreSQL: %w", err)
	}
	return cfg, logger, pool, nil
}

// newReportService собирает сервис отчётов поверх пула соединений.
func newReportService(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) *service.ReportService {
	tables := repository.NewTables(cfg.DBTablePrefix)
	reportRepo := repository.NewReportRepository(pool, tables)
	contextRepo := repository.NewContextRepository(pool, tables)

	var resolver service.ContextResolver = service.NewDBContextResolver(contextRepo, logger)
	if cfg.ContextCacheSize > 0 {
		resolver = service.NewCachedContextResolver(resolver, cfg.ContextCacheSize, cfg.ContextCacheTTL)
		logger.Info("Кэш контекстов включён",
			slog.Int("size", cfg.ContextCacheSize),
			slog.String("ttl", cfg.ContextCacheTTL.String()),
		)
	}

	return service.NewReportService(reportRepo, resolver, logger)
}

func runServe(ctx context.Context) error {
	cfg, logger, pool, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	logger.Info("fileinfo запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)
	if os.Getenv("FI_DEPHEALTH_GROUP") == "" {
		logger.Warn("FI_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	reportSvc := newReportService(cfg, pool, logger)
	bundle := i18n.MustLoad(logger)

	reportHandler := uihandlers.NewReportHandler(reportSvc, bundle, logger)

	var jwtAuth *middleware.JWTAuth
	if cfg.AuthEnabled() {
		jwtAuth, err = middleware.NewJWTAuth(
			cfg.JWTJWKSURL,
			cfg.JWTIssuer,
			cfg.RoleAdminGroups,
			cfg.RoleReadonlyGroups,
			cfg.JWKSRefreshInterval,
			cfg.JWTLeeway,
			logger,
		)
		if err != nil {
			return fmt.Errorf("создание JWT middleware: %w", err)
		}
		logger.Info("JWT middleware инициализирован",
			slog.String("jwks_url", cfg.JWTJWKSURL),
			slog.String("issuer", cfg.JWTIssuer),
		)
	} else {
		logger.Warn("FI_JWT_JWKS_URL не задан, страница отчётов доступна без аутентификации")
	}

	// topologymetrics — мониторинг базы LMS; без него сервис работает.
	var deps handlers.DependencyHealth
	dephealthSvc, err := service.NewDephealthService(service.DephealthConfig{
		ServiceID:     "fileinfo",
		Group:         cfg.DephealthGroup,
		DatabaseURL:   cfg.DatabaseURL(),
		CheckInterval: cfg.DephealthCheckInterval,
	}, pgDB, logger)
	if err != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
	} else {
		defer dephealthSvc.Stop()
		deps = dephealthSvc
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(pool), deps)
	srv := server.New(cfg, logger, healthHandler, reportHandler, jwtAuth)
	if err := srv.Run(); err != nil {
		return fmt.Errorf("сервер: %w", err)
	}

	logger.Info("fileinfo остановлен")
	return nil
}
