package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"foodorder/apperr"
	"foodorder/mylogger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// respondError writes err as {message, errorKind}. Causes of internal errors are
// logged and never sent to the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		mylogger.Error(c.Request.Context(), logger, "Request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}

	c.JSON(apperr.HTTPStatus(kind), gin.H{
		"message":   apperr.Message(err),
		"errorKind": kind.String(),
	})
}

func bindJSON(c *gin.Context, logger *zap.Logger, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "validation failed",
			"errorKind": apperr.KindInvalidInput.String(),
			"errors":    formatValidationError(verrs),
		})
		return false
	}

	respondError(c, logger, apperr.InvalidInput("invalid request body"))
	return false
}

func formatValidationError(verrs validator.ValidationErrors) map[string]string {
	errs := make(map[string]string, len(verrs))
	for _, err := range verrs {
		field := strings.ToLower(err.Field())

		switch err.Tag() {
		case "required":
			errs[field] = fmt.Sprintf("%s is required", field)
		case "min":
			errs[field] = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "gt":
			errs[field] = fmt.Sprintf("%s must be greater than %s", field, err.Param())
		case "gte":
			errs[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
		case "email":
			errs[field] = fmt.Sprintf("%s must be a valid email", field)
		default:
			errs[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return errs
}
