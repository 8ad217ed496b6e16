// Пакет pages — страницы отчётов: модель представления и шаблоны.
// Шаблоны html/template встроены в бинарник и отдаются как templ.Component.
package pages

import (
	"net/url"
	"strconv"

	"github.com/bigkaa/fileinfo/internal/domain/model"
	"github.com/bigkaa/fileinfo/internal/domain/report"
	"github.com/bigkaa/fileinfo/internal/service"
	"github.com/bigkaa/fileinfo/internal/ui/format"
	"github.com/bigkaa/fileinfo/internal/ui/i18n"
)

// Translator — источник переводов (реализуется *i18n.Bundle).
type Translator interface {
	Translate(lang, key string) string
	Translatef(lang, key string, args ...any) string
}

// MenuItem — кнопка выбора отчёта.
type MenuItem struct {
	Label  string
	Href   string
	Active bool
}

// FileRow — строка таблицы файлов.
type FileRow struct {
	ID        string
	Date      string
	Filename  string
	Size      string
	UserID    string
	Username  string
	Component string
	FileArea  string
	ItemID    string
}

// UserRow — строка таблицы пользователей.
type UserRow struct {
	UserID    string
	Username  string
	Href      string
	Files     string
	TotalSize string
}

// AreaRow — строка таблицы областей.
type AreaRow struct {
	Key       string
	Component string
	FileArea  string
	ContextID string
	// Context — строки подписи контекста; пусто, если контекст не определён
	Context   []string
	Files     string
	TotalSize string
}

// View — модель страницы отчёта.
type View struct {
	Lang    string
	Kind    report.Kind
	Menu    []MenuItem
	Heading string
	Files   []FileRow
	Users   []UserRow
	Areas   []AreaRow
	// Error — сообщение об ошибке; при непустом значении таблица не выводится
	Error string

	tr Translator
}

// T возвращает перевод ключа на язык страницы (используется в шаблонах).
func (v *View) T(key string) string {
	return v.tr.Translate(v.Lang, key)
}

// Empty сообщает, что в выбранном отчёте нет строк.
func (v *View) Empty() bool {
	return len(v.Files) == 0 && len(v.Users) == 0 && len(v.Areas) == 0
}

// NewView создаёт модель страницы с меню; kind — активный отчёт.
func NewView(tr Translator, lang string, kind report.Kind) *View {
	v := &View{Lang: lang, Kind: kind, tr: tr}
	labels := map[report.Kind]string{
		report.KindFiles: "menu.files",
		report.KindUsers: "menu.users",
		report.KindAreas: "menu.areas",
	}
	for _, k := range report.MenuKinds() {
		v.Menu = append(v.Menu, MenuItem{
			Label:  v.T(labels[k]),
			Href:   ReportURL(k, nil),
			Active: k == kind,
		})
	}
	return v
}

// WithError помечает страницу сообщением об ошибке.
func (v *View) WithError(msg string) *View {
	v.Error = msg
	return v
}

// Fill заполняет таблицу и заголовок из результата отчёта.
func (v *View) Fill(res *service.Result) *View {
	f := format.New(i18n.Tag(v.Lang))

	switch res.Kind {
	case report.KindFiles:
		v.Heading = v.tr.Translatef(v.Lang, "report.files.heading", report.DefaultLimit)
		v.Files = fileRows(f, res.Files)
	case report.KindUserFiles:
		v.Heading = v.T("report.userfiles.heading")
		v.Files = fileRows(f, res.Files)
	case report.KindUsers:
		v.Heading = v.tr.Translatef(v.Lang, "report.users.heading", report.DefaultLimit)
		for _, u := range res.Users {
			row := UserRow{
				UserID:    strconv.FormatInt(u.UserID, 10),
				Username:  deref(u.Username),
				Files:     f.Count(u.FileCount),
				TotalSize: f.Megabytes(u.TotalSize),
			}
			if u.Username == nil {
				row.Username = row.UserID
			}
			// Файлы с userid IS NULL группируются в строку с id 0, ссылка на неё пуста.
			if u.UserID != 0 {
				id := u.UserID
				row.Href = ReportURL(report.KindUserFiles, &id)
			}
			v.Users = append(v.Users, row)
		}
	case report.KindAreas:
		v.Heading = v.tr.Translatef(v.Lang, "report.areas.heading", report.DefaultLimit)
		for _, a := range res.Areas {
			v.Areas = append(v.Areas, AreaRow{
				Key:       a.Key(),
				Component: a.Component,
				FileArea:  a.FileArea,
				ContextID: strconv.FormatInt(a.ContextID, 10),
				Context:   v.contextLines(a.ContextLabel),
				Files:     f.Count(a.FileCount),
				TotalSize: f.Megabytes(a.TotalSize),
			})
		}
	}
	return v
}

// contextLines — подпись контекста построчно, строка instance id переведена.
func (v *View) contextLines(l model.ContextLabel) []string {
	if l.IsEmpty() {
		return nil
	}
	lines := []string{v.tr.Translatef(v.Lang, "context.instance_id", l.InstanceID), l.Name}
	if l.ParentName != "" {
		lines = append(lines, l.ParentName)
	}
	return lines
}

func fileRows(f *format.Formatter, files []*model.FileRecord) []FileRow {
	rows := make([]FileRow, 0, len(files))
	for _, file := range files {
		rows = append(rows, FileRow{
			ID:        strconv.FormatInt(file.ID, 10),
			Date:      format.Date(file.TimeCreated),
			Filename:  file.Filename,
			Size:      f.Megabytes(file.Filesize),
			UserID:    strconv.FormatInt(file.UserID, 10),
			Username:  deref(file.Username),
			Component: file.Component,
			FileArea:  file.FileArea,
			ItemID:    strconv.FormatInt(file.ItemID, 10),
		})
	}
	return rows
}

// ReportURL — относительная ссылка на отчёт: "?report=users", "?report=userfiles&userid=5".
func ReportURL(kind report.Kind, userID *int64) string {
	q := url.Values{}
	q.Set("report", string(kind))
	if userID != nil {
		q.Set("userid", strconv.FormatInt(*userID, 10))
	}
	return "?" + q.Encode()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
