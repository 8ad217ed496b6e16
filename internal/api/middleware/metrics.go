// metrics.go — Prometheus-метрики HTTP-слоя fileinfo.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/fileinfo/internal/domain/report"
)

var (
	// httpRequestsTotal — запросы по пути, виду отчёта и статусу.
	// report пуст для служебных путей и для меню.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fi_http_requests_total",
			Help: "HTTP-запросы к fileinfo по пути, виду отчёта и статусу",
		},
		[]string{"method", "path", "report", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fi_http_request_duration_seconds",
			Help:    "Время обработки HTTP-запроса fileinfo, секунды",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware считает запросы и время их обработки.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newResponseWriter(w)
			next.ServeHTTP(rec, r)

			path := normalizePath(r.URL.Path)
			kind := ""
			if isReportPath(path) {
				// ParseKind ограничивает значения лейбла известными видами.
				kind = string(report.ParseKind(r.URL.Query().Get("report")))
			}

			httpRequestsTotal.WithLabelValues(r.Method, path, kind, strconv.Itoa(rec.status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

func isReportPath(path string) bool {
	return path == "/" || strings.HasPrefix(path, "/admin/tool/fileinfo")
}

// normalizePath сводит путь к конечному набору лейблов; прочее — "other".
func normalizePath(path string) string {
	switch path {
	case "/", "/admin/tool/fileinfo", "/admin/tool/fileinfo/",
		"/health/live", "/health/ready", "/metrics", "/set-language":
		return path
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}
	return "other"
}
