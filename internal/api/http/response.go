package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"kungfu-delivery/internal/apperr"
	"kungfu-delivery/internal/logger"
)

const (
	msgSuccess        = "success"
	msgInternal       = "服务器内部错误"
	msgBadJSON        = "请求体格式错误"
	msgBadID          = "无效的ID"
	msgRouteNotFound  = "接口不存在"
	msgMethodNotAllow = "请求方法不被允许"
)

// envelope is the body of every JSON response. Code is 0 on success and the
// HTTP status otherwise.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, message string, data any) {
	if message == "" {
		message = msgSuccess
	}
	writeJSON(w, http.StatusOK, envelope{Code: 0, Message: message, Data: data})
}

func writeCreated(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, envelope{Code: 0, Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Code: status, Message: message})
}

// writeError maps application errors onto the envelope. Anything that is not
// an *apperr.Error is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		writeJSON(w, appErr.Code, envelope{Code: appErr.Code, Message: appErr.Message, Data: appErr.Data})
		return
	}

	logger.From(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	message := msgInternal
	if appErr != nil && appErr.Message != "" {
		message = appErr.Message
	}
	writeFail(w, http.StatusInternalServerError, message)
}
