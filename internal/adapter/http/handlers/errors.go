package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solstice_leads/internal/domain/validation"
	"solstice_leads/internal/usecase"
	"solstice_leads/pkg"
)

var (
	errInvalidPayload = pkg.NewDomainErrorSimple("INVALID_PAYLOAD", "Request body is not valid JSON", http.StatusBadRequest)
	errInvalidQuery   = pkg.NewDomainErrorSimple("INVALID_QUERY", "Invalid query parameter", http.StatusBadRequest)
)

func mapLeadError(err error) *pkg.AppError {
	var verr *validation.Errors
	switch {
	case errors.As(err, &verr):
		return pkg.NewValidationError(verr.Fields)
	case errors.Is(err, usecase.ErrInvalidID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrEmptySearchQuery):
		return pkg.NewDomainErrorSimple("INVALID_QUERY", "Search query is required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrContactNotFound):
		return pkg.NewDomainErrorSimple("CONTACT_NOT_FOUND", "Contact not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInquiryNotFound):
		return pkg.NewDomainErrorSimple("INQUIRY_NOT_FOUND", "Inquiry not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

// bindJSON decodes the body into dst. A value of the wrong type is reported
// against its field; anything else is an unreadable payload.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" && typeErr.Type != nil {
		appErr := pkg.NewValidationError([]pkg.FieldError{{
			Field:   typeErr.Field,
			Message: "Must be a " + typeName(typeErr.Type.Kind().String()),
		}})
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return false
	}
	c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
	return false
}

func typeName(kind string) string {
	switch kind {
	case "float32", "float64", "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return "number"
	case "bool":
		return "boolean"
	default:
		return kind
	}
}

// writeError maps err and writes it. Only server faults are logged; the
// cause never reaches the client.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	appErr := mapLeadError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(appErr.Err),
		)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

// queryInt reads an optional integer query parameter. Absent means def.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func handlerLogger(log *zap.Logger, name string) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log.Named(name)
}
