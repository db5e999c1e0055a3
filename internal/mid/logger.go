package mid

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hamidoujand/signup/pkg/logger"
)

func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startedAt := time.Now()
		ctx := c.Request.Context()
		r := c.Request

		//full path with queries
		p := r.URL.Path
		if r.URL.RawQuery != "" {
			p = fmt.Sprintf("%s?%s", p, r.URL.RawQuery)
		}

		log.Info(ctx, "request started", "method", r.Method, "path", p, "remoteAddr", r.RemoteAddr)

		c.Next()

		log.Info(ctx, "request completed", "method", r.Method, "path", p, "remoteAddr", r.RemoteAddr,
			"statusCode", c.Writer.Status(), "took", time.Since(startedAt))
	}
}
