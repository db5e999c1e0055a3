package mid

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/hamidoujand/signup/internal/errs"
	"github.com/hamidoujand/signup/internal/metrics"
	"github.com/hamidoujand/signup/pkg/logger"
)

func Panic(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if val, ok := c.Get(metricsKey); ok {
				if m, ok := val.(*metrics.Metrics); ok {
					m.AddPanic()
				}
			}

			log.Error(c.Request.Context(), "PANIC", "recovered", rec, "stack", string(debug.Stack()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, errs.Error{
				Code:    http.StatusInternalServerError,
				Message: http.StatusText(http.StatusInternalServerError),
			})
		}()

		c.Next()
	}
}
