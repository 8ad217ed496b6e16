// Пакет format — форматирование значений строк отчёта для вывода:
// размеры в мегабайтах, количества с разделителями разрядов, даты.
package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const bytesPerMB = 1024 * 1024

// Formatter форматирует числа по правилам языка.
// Создаётся на запрос: message.Printer не безопасен для конкурентного использования.
type Formatter struct {
	p *message.Printer
}

// New создаёт Formatter для языка tag.
func New(tag language.Tag) *Formatter {
	return &Formatter{p: message.NewPrinter(tag)}
}

// Megabytes — размер в мегабайтах с двумя знаками после запятой и суффиксом " MB".
func (f *Formatter) Megabytes(bytes int64) string {
	return f.p.Sprintf("%.2f", float64(bytes)/bytesPerMB) + " MB"
}

// Count — целое с разделителями разрядов.
func (f *Formatter) Count(n int64) string {
	return f.p.Sprintf("%d", n)
}

// Megabytes форматирует размер по правилам английского языка.
func Megabytes(bytes int64) string {
	return New(language.English).Megabytes(bytes)
}

// Count форматирует количество по правилам английского языка.
func Count(n int64) string {
	return New(language.English).Count(n)
}

// Date — календарная дата unix-времени (UTC) в виде YYYY-MM-DD.
func Date(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.DateOnly)
}
