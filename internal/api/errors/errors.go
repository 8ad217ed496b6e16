// Пакет errors — JSON-ошибки служебных ответов fileinfo (аутентификация).
// Страница отчётов сообщает об ошибках HTML-страницей, не этим пакетом.
//
// Формат: {"error": {"code": "...", "message": "...", "request_id": "..."}}.
package errors

import (
	"encoding/json"
	"net/http"
)

// requestIDHeader дублирует middleware.RequestIDHeader (импорт создал бы цикл).
const requestIDHeader = "X-Request-ID"

// Problem — вид ошибки: HTTP-статус и машинный код.
type Problem struct {
	Status int
	Code   string
}

// Виды ошибок.
var (
	Unauthenticated = Problem{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED"}
	AccessDenied    = Problem{Status: http.StatusForbidden, Code: "FORBIDDEN"}
)

type body struct {
	Error detail `json:"error"`
}

type detail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Write отправляет ошибку. request_id берётся из уже выставленного
// заголовка ответа X-Request-ID.
func (p Problem) Write(w http.ResponseWriter, message string) {
	if p.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="fileinfo"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(body{Error: detail{
		Code:      p.Code,
		Message:   message,
		RequestID: w.Header().Get(requestIDHeader),
	}})
}
