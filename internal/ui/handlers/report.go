// Пакет handlers — HTTP-обработчики страницы отчётов.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/bigkaa/fileinfo/internal/domain/report"
	"github.com/bigkaa/fileinfo/internal/service"
	"github.com/bigkaa/fileinfo/internal/ui/i18n"
	"github.com/bigkaa/fileinfo/internal/ui/pages"
)

// ReportRunner — построитель отчётов (реализуется *service.ReportService).
type ReportRunner interface {
	Run(ctx context.Context, req service.Request) (*service.Result, error)
}

// ReportHandler — обработчик страницы отчётов.
type ReportHandler struct {
	reports ReportRunner
	tr      pages.Translator
	logger  *slog.Logger
}

// NewReportHandler создаёт новый ReportHandler.
func NewReportHandler(reports ReportRunner, tr pages.Translator, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		tr:      tr,
		logger:  logger.With(slog.String("component", "ui.report")),
	}
}

// HandleReport обрабатывает GET / — меню и выбранный отчёт.
// Query: report — вид отчёта, userid — владелец файлов для userfiles.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	lang := i18n.LangFromContext(r.Context())
	kind := report.ParseKind(r.URL.Query().Get("report"))
	view := pages.NewView(h.tr, lang, kind)

	req := service.Request{Kind: kind}
	// Пустой userid равносилен отсутствующему: ошибку вернёт сервис.
	if kind == report.KindUserFiles && r.URL.Query().Get("userid") != "" {
		if err := runtime.BindQueryParameter("form", true, false, "userid", r.URL.Query(), &req.UserID); err != nil {
			h.render(w, r, http.StatusBadRequest, view.WithError(h.tr.Translatef(lang, "error.invalid_param", "userid")))
			return
		}
	}

	res, err := h.reports.Run(r.Context(), req)
	if err != nil {
		status, msg := h.errorMessage(lang, err)
		h.render(w, r, status, view.WithError(msg))
		return
	}

	h.render(w, r, http.StatusOK, view.Fill(res))
}

// errorMessage — HTTP-статус и текст ошибки для пользователя.
func (h *ReportHandler) errorMessage(lang string, err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrMissingParameter):
		return http.StatusBadRequest, h.tr.Translatef(lang, "error.missing_param", "userid")
	case errors.Is(err, service.ErrInvalidParameter):
		return http.StatusBadRequest, h.tr.Translatef(lang, "error.invalid_param", "userid")
	default:
		// Подробности ошибки уже залогированы сервисом.
		return http.StatusInternalServerError, h.tr.Translate(lang, "error.storage")
	}
}

func (h *ReportHandler) render(w http.ResponseWriter, r *http.Request, status int, view *pages.View) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := pages.Page(view).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга страницы отчёта",
			slog.String("kind", string(view.Kind)),
			slog.String("error", err.Error()),
		)
	}
}
