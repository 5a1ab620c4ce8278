package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/soundpost/transcriptor/internal/api/handlers"
	"github.com/soundpost/transcriptor/internal/api/middleware"
)

type Deps struct {
	Events *handlers.EventHandler
	Jobs   *handlers.JobHandler
	WS     *handlers.WSHandler

	Log       *logrus.Logger
	JWTSecret string
	JWTIssuer string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestLogger(d.Log))

	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Storage notifications; the push subscription authenticates at the
	// infrastructure layer (OIDC on the subscription), not here.
	r.POST("/events/storage", d.Events.Receive)

	// Inspection API (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.JWTSecret, d.JWTIssuer))

	auth.GET("/jobs", d.Jobs.List)
	auth.GET("/jobs/:job_id", d.Jobs.Get)

	// WebSocket progress feed
	auth.GET("/ws/jobs/:job_id", d.WS.JobWS)
}
