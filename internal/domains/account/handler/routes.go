package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hamidoujand/signup/internal/auth"
	"github.com/hamidoujand/signup/internal/domains/account/bus"
	"github.com/hamidoujand/signup/internal/mid"
	"github.com/hamidoujand/signup/pkg/logger"
	"go.opentelemetry.io/otel/trace"
)

type Conf struct {
	Router         *gin.Engine
	AccountBus     *bus.Bus
	EmailValidator EmailValidator
	Auth           *auth.Auth
	Kid            string
	TokenMaxAge    time.Duration
	Tracer         trace.Tracer
	Logger         *logger.Logger
}

// RegisterRoutes registers the account endpoints on the router.
func RegisterRoutes(cfg Conf) {
	h := handler{
		controller:  NewSignUpController(cfg.EmailValidator, cfg.AccountBus),
		accountBus:  cfg.AccountBus,
		a:           cfg.Auth,
		kid:         cfg.Kid,
		tokenMaxAge: cfg.TokenMaxAge,
		tracer:      cfg.Tracer,
		log:         cfg.Logger,
	}

	authenticated := mid.Authenticate(cfg.Logger, cfg.Auth, cfg.AccountBus)

	v1 := cfg.Router.Group("/v1")
	v1.POST("/signup", h.signUp)
	v1.POST("/login", h.login)
	v1.GET("/accounts/me", authenticated, h.me)
}
