// dephealth.go — мониторинг базы LMS через topologymetrics.
//
// Проверка идёт через тот же pgxpool, что и отчёты (адаптер
// stdlib.OpenDBFromPool), поэтому исчерпание пула видно как сбой зависимости.
// Метрики app_dependency_health и app_dependency_latency_seconds
// отдаются на /metrics.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
)

// lmsDependency — имя зависимости в метриках.
const lmsDependency = "lms-postgresql"

// DephealthConfig — параметры мониторинга.
type DephealthConfig struct {
	// ServiceID — вершина графа текущего приложения
	ServiceID string
	// Group — FI_DEPHEALTH_GROUP
	Group string
	// DatabaseURL — URL базы без пароля, только для лейблов
	DatabaseURL string
	// CheckInterval — FI_DEPHEALTH_CHECK_INTERVAL
	CheckInterval time.Duration
}

// DephealthService — фоновые проверки зависимостей.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService регистрирует базу LMS как критичную зависимость.
// extra — дополнительные опции SDK (в тестах — dephealth.WithRegisterer).
func NewDephealthService(
	cfg DephealthConfig,
	db *sql.DB,
	logger *slog.Logger,
	extra ...dephealth.Option,
) (*DephealthService, error) {
	opts := append([]dephealth.Option{
		dephealth.WithLogger(logger),
		dephealth.AddDependency(lmsDependency, dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(db)),
			dephealth.FromURL(cfg.DatabaseURL),
			dephealth.CheckInterval(cfg.CheckInterval),
			dephealth.Critical(true),
		),
	}, extra...)

	dh, err := dephealth.New(cfg.ServiceID, cfg.Group, opts...)
	if err != nil {
		return nil, fmt.Errorf("topologymetrics: %w", err)
	}
	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодические проверки.
func (ds *DephealthService) Start(ctx context.Context) error {
	if err := ds.dh.Start(ctx); err != nil {
		return err
	}
	ds.logger.Info("Мониторинг базы LMS запущен")
	return nil
}

// Stop останавливает проверки.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг базы LMS остановлен")
}

// Health — результат последней проверки каждой зависимости (true — ok).
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
