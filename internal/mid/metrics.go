package mid

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hamidoujand/signup/internal/metrics"
)

const metricsKey = "metrics"

func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		//panic middleware reads it back to count panics.
		c.Set(metricsKey, m)

		c.Next()

		numReq := m.AddRequest()
		if numReq%1000 == 0 {
			m.SetGoroutines()
		}

		if c.Writer.Status() >= http.StatusInternalServerError || len(c.Errors) > 0 {
			m.AddError()
		}

		if c.FullPath() == "/v1/signup" && c.Writer.Status() == http.StatusOK {
			m.AddSignup()
		}
	}
}
