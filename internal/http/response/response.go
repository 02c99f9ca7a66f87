// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов об ошибках HTTP-обработчиков.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// ErrorResponse тело ответа с ошибкой: {"error": "...", "code": "..."}.
type ErrorResponse struct {
	Error string `json:"error" example:"Требуется авторизация"`
	Code  string `json:"code,omitempty" example:"NO_SUBSCRIPTION"`
}

// Тексты ошибок, общие для нескольких обработчиков.
const (
	MsgUnauthorized  = "Требуется авторизация"
	MsgInvalidToken  = "Токен недействителен"
	MsgInvalidBody   = "invalid request body"
	MsgInternalError = "internal server error"
	MsgUnknownAction = "unknown action"
	MsgTooManyReqs   = "too many requests"
)

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// ErrorWithCode возвращает ErrorResponse с сообщением и машиночитаемым кодом.
func ErrorWithCode(msg, code string) ErrorResponse {
	return ErrorResponse{Error: msg, Code: code}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко-читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{Error: strings.Join(errsMsgs, ", ")}
}
