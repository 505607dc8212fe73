package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/heartspace/internal/http/middlewares"
	"github.com/geocoder89/heartspace/internal/service"
	"github.com/geocoder89/heartspace/internal/validation"
	"github.com/gin-gonic/gin"
)

// storeTimeout bounds the store work done by a single request.
const storeTimeout = 3 * time.Second

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func requestContext(ctx *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), storeTimeout)
}

// RespondOK writes a success envelope: {"success": true, "message"?, ...data}.
func RespondOK(ctx *gin.Context, status int, message string, data gin.H) {
	body := gin.H{"success": true}

	if message != "" {
		body["message"] = message
	}

	for k, v := range data {
		body[k] = v
	}

	ctx.JSON(status, body)
}

// RespondError writes a failure envelope: {"success": false, "message",
// "error": code, "errors"?: field errors, "requestId"?}.
func RespondError(ctx *gin.Context, status int, code, message string, fields []validation.FieldError) {
	body := gin.H{
		"success": false,
		"error":   code,
		"message": message,
	}

	if len(fields) > 0 {
		body["errors"] = fields
	}

	if id := requestIDFrom(ctx); id != "" {
		body["requestId"] = id
	}

	ctx.JSON(status, body)
}

func RespondBadRequest(ctx *gin.Context, message string, fields []validation.FieldError) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, fields)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

// RespondServiceError maps a service failure onto the envelope. Internal
// causes are logged, never returned.
func RespondServiceError(ctx *gin.Context, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = service.InternalError("Server Error", err)
	}

	switch svcErr.Kind {
	case service.KindValidation:
		RespondBadRequest(ctx, svcErr.Message, svcErr.Fields)
	case service.KindConflict:
		RespondConflict(ctx, "conflict", svcErr.Message)
	case service.KindAuth:
		RespondUnAuthorized(ctx, "unauthorized", svcErr.Message)
	case service.KindNotFound:
		RespondNotFound(ctx, svcErr.Message)
	default:
		slog.Default().ErrorContext(ctx.Request.Context(), "request failed",
			"route", ctx.FullPath(),
			"request_id", requestIDFrom(ctx),
			"err", err,
		)
		RespondInternal(ctx, svcErr.Message)
	}
}

// NotFoundRoute answers any path no route matched.
func NotFoundRoute(ctx *gin.Context) {
	RespondError(ctx, http.StatusNotFound, "not_found", "Route Not Found", nil)
}
