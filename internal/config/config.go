// Пакет config — загрузка и валидация конфигурации fileinfo
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации fileinfo.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера (диапазон 8040-8049)
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	// Таймаут чтения HTTP-сервера
	HTTPReadTimeout time.Duration
	// Таймаут записи HTTP-сервера
	HTTPWriteTimeout time.Duration
	// Таймаут простоя HTTP-сервера
	HTTPIdleTimeout time.Duration

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных LMS
	DBName string
	// Имя пользователя PostgreSQL (достаточно прав только на чтение)
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string
	// Префикс таблиц LMS (по умолчанию "mdl_")
	DBTablePrefix string
	// Применять встроенные миграции при старте (только dev/test окружения)
	DBMigrate bool

	// --- Кэш контекстов ---

	// Максимальное количество контекстов в LRU-кэше (0 — кэш выключен)
	ContextCacheSize int
	// Время жизни записи в кэше контекстов
	ContextCacheTTL time.Duration

	// --- JWT (опционально) ---

	// URL JWKS endpoint. Пустое значение — аутентификация выключена.
	JWTJWKSURL string
	// Ожидаемый issuer JWT (опционально)
	JWTIssuer string
	// Интервал фонового обновления JWKS
	JWKSRefreshInterval time.Duration
	// Допустимое отклонение часов при проверке exp/nbf
	JWTLeeway time.Duration

	// --- Маппинг групп → ролей ---

	// Группы IdP, дающие роль admin (через запятую)
	RoleAdminGroups []string
	// Группы IdP, дающие роль readonly (через запятую)
	RoleReadonlyGroups []string

	// --- topologymetrics ---

	// Имя группы в метриках зависимостей
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// tablePrefixPattern — допустимый префикс таблиц (подставляется в идентификаторы SQL).
var tablePrefixPattern = regexp.MustCompile(`^[a-z0-9_]*$`)

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// FI_PORT — порт HTTP-сервера (по умолчанию 8040)
	cfg.Port, err = getEnvInt("FI_PORT", 8040)
	if err != nil {
		return nil, fmt.Errorf("FI_PORT: %w", err)
	}
	if cfg.Port < 8040 || cfg.Port > 8049 {
		return nil, fmt.Errorf("FI_PORT: значение %d вне допустимого диапазона 8040-8049", cfg.Port)
	}

	// FI_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("FI_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("FI_LOG_LEVEL: %w", err)
	}

	// FI_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("FI_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("FI_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("FI_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FI_HTTP_READ_TIMEOUT: %w", err)
	}

	cfg.HTTPWriteTimeout, err = getEnvDuration("FI_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FI_HTTP_WRITE_TIMEOUT: %w", err)
	}

	cfg.HTTPIdleTimeout, err = getEnvDuration("FI_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FI_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- PostgreSQL ---

	// FI_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("FI_DB_HOST")
	if err != nil {
		return nil, err
	}

	// FI_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("FI_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("FI_DB_PORT: %w", err)
	}

	// FI_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("FI_DB_NAME")
	if err != nil {
		return nil, err
	}

	// FI_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("FI_DB_USER")
	if err != nil {
		return nil, err
	}

	// FI_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("FI_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// FI_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("FI_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("FI_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// FI_DB_TABLE_PREFIX — префикс таблиц LMS (по умолчанию mdl_).
	// Пустой префикс допустим, поэтому getEnvDefault не подходит.
	cfg.DBTablePrefix = "mdl_"
	if val, ok := os.LookupEnv("FI_DB_TABLE_PREFIX"); ok {
		cfg.DBTablePrefix = val
	}
	if !tablePrefixPattern.MatchString(cfg.DBTablePrefix) {
		return nil, fmt.Errorf("FI_DB_TABLE_PREFIX: недопустимое значение %q, допустимы [a-z0-9_]", cfg.DBTablePrefix)
	}

	// FI_DB_MIGRATE — применять миграции при старте (по умолчанию false)
	cfg.DBMigrate, err = getEnvBool("FI_DB_MIGRATE", false)
	if err != nil {
		return nil, fmt.Errorf("FI_DB_MIGRATE: %w", err)
	}

	// --- Кэш контекстов ---

	// FI_CONTEXT_CACHE_SIZE — размер LRU-кэша контекстов (по умолчанию 0, выключен)
	cfg.ContextCacheSize, err = getEnvInt("FI_CONTEXT_CACHE_SIZE", 0)
	if err != nil {
		return nil, fmt.Errorf("FI_CONTEXT_CACHE_SIZE: %w", err)
	}
	if cfg.ContextCacheSize < 0 || cfg.ContextCacheSize > 100000 {
		return nil, fmt.Errorf("FI_CONTEXT_CACHE_SIZE: значение %d вне допустимого диапазона 0-100000", cfg.ContextCacheSize)
	}

	// FI_CONTEXT_CACHE_TTL — время жизни записи кэша (по умолчанию 5m)
	cfg.ContextCacheTTL, err = getEnvDuration("FI_CONTEXT_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FI_CONTEXT_CACHE_TTL: %w", err)
	}

	// --- JWT ---

	// FI_JWT_JWKS_URL — JWKS endpoint; пусто — аутентификация выключена
	cfg.JWTJWKSURL = strings.TrimSpace(getEnvDefault("FI_JWT_JWKS_URL", ""))
	if cfg.JWTJWKSURL != "" {
		if _, parseErr := url.ParseRequestURI(cfg.JWTJWKSURL); parseErr != nil {
			return nil, fmt.Errorf("FI_JWT_JWKS_URL: некорректный URL %q", cfg.JWTJWKSURL)
		}
	}

	// FI_JWT_ISSUER — ожидаемый issuer (опционально)
	cfg.JWTIssuer = getEnvDefault("FI_JWT_ISSUER", "")

	cfg.JWKSRefreshInterval, err = getEnvDuration("FI_JWKS_REFRESH_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FI_JWKS_REFRESH_INTERVAL: %w", err)
	}

	cfg.JWTLeeway, err = getEnvDuration("FI_JWT_LEEWAY", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FI_JWT_LEEWAY: %w", err)
	}

	// --- Маппинг групп → ролей ---

	cfg.RoleAdminGroups = parseCSV(getEnvDefault("FI_ROLE_ADMIN_GROUPS", "fileinfo-admins"))
	cfg.RoleReadonlyGroups = parseCSV(getEnvDefault("FI_ROLE_READONLY_GROUPS", "fileinfo-viewers"))

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("FI_DEPHEALTH_GROUP", "fileinfo")

	cfg.DephealthCheckInterval, err = getEnvDuration("FI_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FI_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// FI_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("FI_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FI_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// AuthEnabled — включена ли JWT-аутентификация страницы отчётов.
func (c *Config) AuthEnabled() bool {
	return c.JWTJWKSURL != ""
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL без пароля (для лейблов метрик).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%d/%s", c.DBHost, c.DBPort, c.DBName)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
