package handler

import (
	"log/slog"
	"net/http"

	"libmanage/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
)

// RouterDeps collects everything NewRouter mounts.
type RouterDeps struct {
	Logger        *slog.Logger
	Tokens        *middleware.TokenManager
	Throttle      gin.HandlerFunc // optional, guards lending mutations
	CORSOrigins   []string
	Books         *BookHandler
	Lending       *LendingHandler
	Notifications *NotificationHandler
	Stats         *StatsHandler
	Profiles      *ProfileHandler
	Comments      *CommentHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if d.Logger != nil {
		r.Use(middleware.RequestLogger(d.Logger))
	}
	if len(d.CORSOrigins) > 0 {
		r.Use(middleware.CORS(d.CORSOrigins))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", middleware.AuthMiddleware(d.Tokens))

	var throttle []gin.HandlerFunc
	if d.Throttle != nil {
		throttle = append(throttle, d.Throttle)
	}

	d.Books.RegisterRoutes(api)
	d.Lending.RegisterRoutes(api, throttle...)
	d.Comments.RegisterRoutes(api)
	d.Profiles.RegisterRoutes(api)
	d.Stats.RegisterRoutes(api)
	d.Notifications.RegisterRoutes(api.Group("/notifications"))
	return r
}
