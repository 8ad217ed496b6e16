// report.go — сервис отчётов по занятому файлами месту.
// Выполняет выбранный запрос, ограничивает размер отчёта
// и подписывает области хранения именами контекстов.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/fileinfo/internal/domain/model"
	"github.com/bigkaa/fileinfo/internal/domain/report"
	"github.com/bigkaa/fileinfo/internal/repository"
)

// Prometheus-метрики отчётов.
var (
	reportRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fi_report_runs_total",
		Help: "Количество построенных отчётов по видам и результату.",
	}, []string{"kind", "status"})
	reportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fi_report_duration_seconds",
		Help:    "Длительность построения отчёта.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	contextResolutionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fi_context_resolution_failures_total",
		Help: "Количество контекстов, имя которых не удалось определить.",
	})
)

// Request — параметры построения отчёта.
type Request struct {
	// Kind — вид отчёта
	Kind report.Kind
	// UserID — владелец файлов; обязателен для KindUserFiles
	UserID *int64
}

// Result — построенный отчёт. Заполнено только поле, соответствующее Kind.
type Result struct {
	Kind   report.Kind
	UserID int64
	Files  []*model.FileRecord
	Users  []*model.UserAggregate
	Areas  []*model.AreaAggregate
}

// ReportService — построение отчётов.
type ReportService struct {
	repo     repository.ReportRepository
	resolver ContextResolver
	limit    int
	logger   *slog.Logger
}

// NewReportService создаёт сервис отчётов.
func NewReportService(
	repo repository.ReportRepository,
	resolver ContextResolver,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{
		repo:     repo,
		resolver: resolver,
		limit:    report.DefaultLimit,
		logger:   logger.With(slog.String("component", "report_service")),
	}
}

// Run строит отчёт вида req.Kind. Для KindMenu возвращает пустой результат
// без обращения к базе.
func (s *ReportService) Run(ctx context.Context, req Request) (*Result, error) {
	res := &Result{Kind: req.Kind}
	if req.Kind == report.KindMenu {
		return res, nil
	}

	if req.Kind == report.KindUserFiles && req.UserID == nil {
		reportRunsTotal.WithLabelValues(string(req.Kind), "rejected").Inc()
		return nil, fmt.Errorf("%w: userid", ErrMissingParameter)
	}

	start := time.Now()
	err := s.run(ctx, req, res)
	reportDuration.WithLabelValues(string(req.Kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		reportRunsTotal.WithLabelValues(string(req.Kind), "error").Inc()
		s.logger.Error("Ошибка построения отчёта",
			slog.String("kind", string(req.Kind)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	reportRunsTotal.WithLabelValues(string(req.Kind), "ok").Inc()

	s.logger.Debug("Отчёт построен",
		slog.String("kind", string(req.Kind)),
		slog.Int("rows", len(res.Files)+len(res.Users)+len(res.Areas)),
		slog.Duration("duration", time.Since(start)),
	)
	return res, nil
}

func (s *ReportService) run(ctx context.Context, req Request, res *Result) error {
	var err error
	switch req.Kind {
	case report.KindFiles:
		res.Files, err = s.repo.LargestFiles(ctx, s.limit)
	case report.KindUserFiles:
		res.UserID = *req.UserID
		res.Files, err = s.repo.UserFiles(ctx, *req.UserID)
	case report.KindUsers:
		res.Users, err = s.repo.LargestUsers(ctx, s.limit)
	case report.KindAreas:
		res.Areas, err = s.repo.LargestAreas(ctx, s.limit)
		if err == nil {
			s.annotateAreas(ctx, res.Areas)
		}
	}
	if err != nil {
		return fmt.Errorf("отчёт %s: %w", req.Kind, err)
	}

	if req.Kind.Limited() {
		res.Files = capRows(res.Files, s.limit)
		res.Users = capRows(res.Users, s.limit)
		res.Areas = capRows(res.Areas, s.limit)
	}
	return nil
}

// annotateAreas заполняет ContextLabel каждой области.
// Ошибка разрешения контекста не прерывает отчёт: подпись остаётся пустой.
func (s *ReportService) annotateAreas(ctx context.Context, areas []*model.AreaAggregate) {
	for _, a := range areas {
		if a.ContextID == 0 {
			continue
		}
		c, err := s.resolver.Resolve(ctx, a.ContextID)
		if err != nil {
			contextResolutionFailures.Inc()
			s.logger.Warn("Не удалось определить контекст области",
				slog.Int64("context_id", a.ContextID),
				slog.String("area_component", a.Component),
				slog.String("error", err.Error()),
			)
			continue
		}
		a.ContextLabel = LabelFor(c)
	}
}

// LabelFor строит подпись контекста: instance id, имя и имя родителя.
func LabelFor(c Context) model.ContextLabel {
	label := model.ContextLabel{
		InstanceID: c.InstanceID(),
		Name:       c.Name(),
	}
	if parent, ok := c.Parent(); ok {
		label.ParentName = parent.Name()
	}
	return label
}

func capRows[T any](rows []T, limit int) []T {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
