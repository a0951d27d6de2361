package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelier-sns/atelier/internal/container"
	handlers "github.com/atelier-sns/atelier/internal/interface/http"
	"github.com/atelier-sns/atelier/internal/interface/middleware"
	"github.com/atelier-sns/atelier/pkg/helpers"
)

// WorkModule wires posting and feed routes. Everything here requires a
// session: works are never served to anonymous callers.

type WorkModule struct {
	Handler *handlers.WorkHandler
	JWT     *helpers.JWTManager
}

func NewWorkModule(h *handlers.WorkHandler, jwt *helpers.JWTManager) *WorkModule {
	return &WorkModule{Handler: h, JWT: jwt}
}

func (m *WorkModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/feed", m.Handler.Feed)
		auth.POST("/works", m.Handler.Create)
		auth.GET("/works/search", m.Handler.Search)
		auth.GET("/works/:id", m.Handler.Get)
	}
}
