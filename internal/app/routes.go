package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mediamuse/core/internal/middleware"
	"github.com/mediamuse/core/internal/modules/auth"
	"github.com/mediamuse/core/internal/modules/recommend"
	"github.com/mediamuse/core/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes() {
	r := a.router
	authMW := middleware.Auth(a.db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	api := r.Group(apiPrefix)
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	userSvc := auth.NewService(a.db)
	auth.NewHandler(a.db, userSvc, a.cfg.OAuth).RegisterRoutes(api, authMW)

	recSvc := recommend.NewService(a.db, a.completer, a.logger)
	recommend.NewHandler(recSvc).RegisterRoutes(api, authMW)
}
