package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/ecoexplorer/core/internal/middleware"
	"github.com/ecoexplorer/core/internal/modules/auth"
	"github.com/ecoexplorer/core/internal/modules/chat"
	"github.com/ecoexplorer/core/internal/modules/contact"
	"github.com/ecoexplorer/core/internal/modules/location"
	pkgcron "github.com/ecoexplorer/core/internal/pkg/cron"
	"github.com/ecoexplorer/core/internal/pkg/mail"
	"github.com/ecoexplorer/core/internal/pkg/response"
	"github.com/ecoexplorer/core/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const apiPrefix = "/api"

var appInfo = gin.H{
	"name":    "eco-explorer-core",
	"version": "1.0.0",
}

func (a *App) registerRoutes() {
	r := a.router
	sessions := session.NewStore(a.redis)
	authMW := middleware.Auth(sessions)
	limit := middleware.RateLimit(a.redis, a.logger)

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	r.NoMethod(func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	if a.cfg.Images.Driver == "local" {
		r.Static(a.cfg.Images.Local.PublicPath, a.cfg.ImageDir())
	}

	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(sessions))

	api.GET("", func(c *gin.Context) { c.JSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	api.GET("/uptime", func(c *gin.Context) {
		up := time.Since(a.started)
		response.OK(c, gin.H{
			"timestamp": up.Milliseconds(),
			"humanize":  humanizeDuration(up),
		})
	})

	authSvc := auth.NewService(a.cfg.Admin, sessions)
	auth.NewHandler(authSvc, sessions, !a.cfg.IsDev(), a.logger).RegisterRoutes(api, authMW)

	location.NewHandler(a.lifecycle, a.projection, a.images, a.reconciler, location.HandlerConfig{
		PageSize:       a.cfg.Gallery.PageSize,
		MaxUploadBytes: a.cfg.UploadLimit(),
	}, a.logger).RegisterRoutes(api, authMW)

	completer, err := chat.NewCompleter(a.cfg.Chat)
	if err != nil {
		a.logger.Warn("chat is not configured", zap.Error(err))
	}
	var chatCompleter chat.Completer
	if completer != nil {
		chatCompleter = completer
	}
	chat.NewHandler(chatCompleter, chat.Options{
		SystemPrompt: a.cfg.Chat.SystemPrompt,
		Greeting:     a.cfg.Chat.Greeting,
		Timeout:      a.cfg.ChatTimeout(),
	}, a.logger).RegisterRoutes(api, limit)

	contact.NewHandler(mail.New(mail.FromAppConfig(a.cfg.Mail)), a.logger).RegisterRoutes(api, limit)

	tasks := api.Group("/tasks", authMW)
	tasks.GET("", func(c *gin.Context) { response.OK(c, a.sched.List()) })
	tasks.POST("/:name/run", func(c *gin.Context) {
		err := a.sched.Run(c.Request.Context(), c.Param("name"))
		switch {
		case err == nil:
			response.Success(c, nil)
		case errors.Is(err, pkgcron.ErrUnknownJob):
			response.NotFoundMsg(c, err.Error())
		default:
			response.InternalError(c, err)
		}
	})
}
