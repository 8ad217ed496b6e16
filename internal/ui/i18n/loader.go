// loader.go — загрузка каталогов переводов из embed.FS.
package i18n

import (
	"embed"
	"fmt"
	"log/slog"
)

// localeFS — встроенные JSON-каталоги переводов.
//
//go:embed locales/*.json
var localeFS embed.FS

// LoadFromEmbedFS загружает все каталоги переводов из встроенной файловой системы.
// Ожидаемые файлы: locales/en.json, locales/ru.json.
func LoadFromEmbedFS(bundle *Bundle, logger *slog.Logger) error {
	langs := []string{"en", "ru"}

	for _, lang := range langs {
		path := fmt.Sprintf("locales/%s.json", lang)
		data, err := localeFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("i18n: не удалось прочитать %s: %w", path, err)
		}

		if err := bundle.LoadMessages(lang, data); err != nil {
			return err
		}
	}

	logger.Info("i18n каталоги загружены", slog.Int("languages", len(langs)))
	return nil
}

// MustLoad создаёт Bundle со встроенными каталогами.
// Каталоги встроены в бинарник, ошибка означает дефект сборки.
func MustLoad(logger *slog.Logger) *Bundle {
	b := NewBundle(logger)
	if err := LoadFromEmbedFS(b, logger); err != nil {
		panic(err)
	}
	return b
}
