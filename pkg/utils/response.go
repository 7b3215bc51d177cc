package utils

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "allocation-system/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
	Total   *uint64     `json:"total,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.Total = &total[0]
	}
	return ctx.JSON(code, response)
}

type errorBody struct {
	ErrorKind string                 `json:"error_kind,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse приводит любую ошибку к единому конверту ответа.
// Для HttpError наружу уходит только пользовательское сообщение и details;
// обёрнутая техническая ошибка остаётся в логах.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	message := "Внутренняя ошибка сервера"
	body := errorBody{}

	if httpErr, ok := err.(*apperrors.HttpError); ok {
		code = httpErr.Code
		message = httpErr.Message
		body.ErrorKind = string(httpErr.Kind)
		body.Details = httpErr.Details
		if httpErr.Err != nil {
			logger.Debug("техническая причина ошибки", zap.Error(httpErr.Err))
		}
	} else {
		logger.Error("необработанная ошибка", zap.Error(err))
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    body,
		Message: message,
	})
}
