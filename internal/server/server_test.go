package server

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	apihandlers "github.com/bigkaa/fileinfo/internal/api/handlers"
	"github.com/bigkaa/fileinfo/internal/api/middleware"
	"github.com/bigkaa/fileinfo/internal/config"
	"github.com/bigkaa/fileinfo/internal/service"
	uihandlers "github.com/bigkaa/fileinfo/internal/ui/handlers"
	"github.com/bigkaa/fileinfo/internal/ui/i18n"
)

type okChecker struct{}

func (okChecker) CheckReady() (string, string) { return "ok", "" }

type stubRunner struct{}

func (stubRunner) Run(_ context.Context, req service.Request) (*service.Result, error) {
	return &service.Result{Kind: req.Kind}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Port:            8040,
		HTTPReadTimeout: time.Second,
		ShutdownTimeout: time.Second,
	}
}

func newTestServer(jwtAuth *middleware.JWTAuth) *Server {
	logger := testLogger()
	reports := uihandlers.NewReportHandler(stubRunner{}, i18n.MustLoad(logger), logger)
	return New(testConfig(), logger, apihandlers.NewHealthHandler(okChecker{}, nil), reports, jwtAuth)
}

func TestRoutes(t *testing.T) {
	h := newTestServer(nil).Handler()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, ReportPath, http.StatusOK},
		{http.MethodGet, ReportPath + "?report=files", http.StatusOK},
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/static/css/fileinfo.css", http.StatusOK},
		{http.MethodGet, "/static/css/missing.css", http.StatusNotFound},
		{http.MethodPost, "/set-language", http.StatusSeeOther},
		{http.MethodGet, "/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("статус = %d, ожидается %d", rec.Code, tt.status)
			}
			if rec.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("X-Request-ID не установлен")
			}
		})
	}
}

const testKeyID = "server-test"

func newTestJWTAuth(t *testing.T) (*middleware.JWTAuth, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	jwks, _ := json.Marshal(map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"kid": testKeyID,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	})
	kf, err := keyfunc.NewJWKSetJSON(jwks)
	if err != nil {
		t.Fatal(err)
	}
	return middleware.NewJWTAuthWithKeyfunc(kf, "", []string{"admins"}, []string{"viewers"}, testLogger()), key
}

func TestRoutes_WithJWT(t *testing.T) {
	auth, key := newTestJWTAuth(t)
	h := newTestServer(auth).Handler()

	// Публичные пути доступны без токена.
	for _, path := range []string{"/health/live", "/metrics", "/static/css/fileinfo.css"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: статус = %d, ожидается 200", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ReportPath, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("без токена: статус = %d, ожидается 401", rec.Code)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub":    "u-1",
		"groups": []string{"viewers"},
		"exp":    jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token.Header["kid"] = testKeyID
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, ReportPath+"?report=users", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("с токеном: статус = %d, ожидается 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "100 Largest Users") {
		t.Error("страница отчёта не отрисована")
	}
}
