// health.go — пробы Kubernetes и /metrics.
//
// /health/ready отвечает 503 только при недоступной базе LMS. Состояние
// фоновых проверок topologymetrics показывается в ответе, но не снимает
// под с балансировки: оно отстаёт от прямого ping на интервал проверки.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/fileinfo/internal/config"
)

const serviceName = "fileinfo"

// Статусы проб.
const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusFail     = "fail"
)

// ReadinessChecker — прямая проверка базы (реализуется database.ReadinessChecker).
type ReadinessChecker interface {
	CheckReady() (status string, message string)
}

// DependencyHealth — последние результаты фоновых проверок зависимостей
// (реализуется service.DephealthService).
type DependencyHealth interface {
	Health() map[string]bool
}

// HealthHandler — обработчик проб и метрик.
type HealthHandler struct {
	db      ReadinessChecker
	deps    DependencyHealth
	metrics http.Handler
}

// NewHealthHandler создаёт обработчик. db == nil — база не готова;
// deps == nil — мониторинг зависимостей не запущен.
func NewHealthHandler(db ReadinessChecker, deps DependencyHealth) *HealthHandler {
	return &HealthHandler{db: db, deps: deps, metrics: promhttp.Handler()}
}

type probeHeader struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type checkResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type readyResponse struct {
	probeHeader
	Database     checkResult     `json:"database"`
	Dependencies map[string]bool `json:"dependencies,omitempty"`
}

func newProbeHeader(status string) probeHeader {
	return probeHeader{
		Status:    status,
		Service:   serviceName,
		Version:   config.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// HealthLive — процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newProbeHeader(statusOK))
}

// HealthReady — база LMS отвечает.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	db := checkResult{Status: statusFail, Message: "проверка базы не настроена"}
	if h.db != nil {
		st, msg := h.db.CheckReady()
		db = checkResult{Status: st, Message: msg}
	}

	var deps map[string]bool
	if h.deps != nil {
		deps = h.deps.Health()
	}

	resp := readyResponse{
		probeHeader:  newProbeHeader(readyStatus(db.Status, deps)),
		Database:     db,
		Dependencies: deps,
	}

	code := http.StatusOK
	if resp.Status == statusFail {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// readyStatus: fail — база недоступна; degraded — база отвечает,
// но фоновая проверка какой-то зависимости не прошла.
func readyStatus(db string, deps map[string]bool) string {
	if db == statusFail {
		return statusFail
	}
	for _, ok := range deps {
		if !ok {
			return statusDegraded
		}
	}
	return db
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
