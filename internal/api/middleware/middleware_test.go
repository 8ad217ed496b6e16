package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/admin/tool/fileinfo", "/admin/tool/fileinfo"},
		{"/health/live", "/health/live"},
		{"/health/ready", "/health/ready"},
		{"/metrics", "/metrics"},
		{"/set-language", "/set-language"},
		{"/static/css/fileinfo.css", "/static/*"},
		{"/wp-login.php", "other"},
		{"/admin/tool/fileinfo/../../etc", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, ожидается %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMetricsMiddleware_PassThrough(t *testing.T) {
	handler := MetricsMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("статус = %d, ожидается 418", rec.Code)
	}
}

func TestIsReportPath(t *testing.T) {
	for _, p := range []string{"/", "/admin/tool/fileinfo", "/admin/tool/fileinfo/"} {
		if !isReportPath(p) {
			t.Errorf("isReportPath(%q) = false", p)
		}
	}
	for _, p := range []string{"/metrics", "/static/*", "other"} {
		if isReportPath(p) {
			t.Errorf("isReportPath(%q) = true", p)
		}
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		status int
		want   slog.Level
	}{
		{http.StatusOK, slog.LevelInfo},
		{http.StatusSeeOther, slog.LevelInfo},
		{http.StatusNotFound, slog.LevelWarn},
		{http.StatusServiceUnavailable, slog.LevelError},
	}
	for _, tt := range tests {
		if got := levelFor(tt.status); got != tt.want {
			t.Errorf("levelFor(%d) = %v, ожидается %v", tt.status, got, tt.want)
		}
	}
}

func TestRequestID_Generated(t *testing.T) {
	var inCtx string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inCtx = RequestIDFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	header := rec.Header().Get(RequestIDHeader)
	if header == "" {
		t.Fatal("заголовок X-Request-ID не установлен")
	}
	if inCtx != header {
		t.Errorf("id в контексте %q != заголовку %q", inCtx, header)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	var inCtx string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inCtx = RequestIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if inCtx != "abc-123" {
		t.Errorf("id = %q, ожидается abc-123", inCtx)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if len(inCtx) > maxRequestIDLen {
		t.Error("слишком длинный входящий id не должен приниматься")
	}
}

func TestRequestLogger_Levels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusBadRequest, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			handler := RequestID()(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("hello"))
			})))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?report=files", nil))

			out := buf.String()
			if !strings.Contains(out, tt.level) {
				t.Errorf("лог %q не содержит %q", out, tt.level)
			}
			if !strings.Contains(out, "report=files") {
				t.Errorf("лог не содержит query: %q", out)
			}
			if !strings.Contains(out, "bytes=5") {
				t.Errorf("лог не содержит размер ответа: %q", out)
			}
			if !strings.Contains(out, "request_id=") {
				t.Errorf("лог не содержит request_id: %q", out)
			}
		})
	}
}
