package mid

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/hamidoujand/signup/internal/errs"
	"github.com/hamidoujand/signup/pkg/logger"
)

// Errors writes the last error a handler attached with c.Error.
func Errors(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *errs.Error
		var validationErrors validator.ValidationErrors

		switch {
		case errors.As(err, &appErr):
			log.Error(c.Request.Context(), "error while handling request", "err", err, "fileName", appErr.FileName, "funcName", appErr.FuncName)
			//only the internal server errors need a generic message so we do not leak any info
			if appErr.Code == http.StatusInternalServerError {
				appErr.Message = http.StatusText(http.StatusInternalServerError)
			}

			c.JSON(appErr.Code, appErr)
		case errors.As(err, &validationErrors):
			c.JSON(http.StatusBadRequest, errs.Error{
				Code:    http.StatusBadRequest,
				Message: "validation failed",
				Fields:  errs.FieldErrors(validationErrors),
			})
		default:
			log.Error(c.Request.Context(), "unknown error", "err", err)
			c.JSON(http.StatusInternalServerError, errs.Error{
				Code:    http.StatusInternalServerError,
				Message: http.StatusText(http.StatusInternalServerError),
			})
		}
	}
}
