package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/interviewme/internal/api/handlers"
	"github.com/yoockh/interviewme/internal/api/middleware"
	"github.com/yoockh/interviewme/internal/utils"
)

type Deps struct {
	Tokens *utils.TokenManager

	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Analysis  *handlers.AnalysisHandler
	Question  *handlers.QuestionHandler
	Session   *handlers.SessionHandler
	Attempt   *handlers.AttemptHandler
	Recording *handlers.RecordingHandler // nil when no bucket is configured
	WS        *handlers.WSHandler

	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", d.Health.Ping)
	r.GET("/readyz", d.Health.Ready)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", d.Auth.Signup)
	authGroup.POST("/login", d.Auth.Login)

	// stateless analyzers are open, like the original browser demo
	analyze := api.Group("/analyze")
	analyze.POST("/speech", d.Analysis.Speech)
	analyze.POST("/frame", d.Analysis.Frame)

	protected := api.Group("/")
	protected.Use(middleware.JWTAuth(d.Tokens))

	protected.GET("/questions", d.Question.List)
	protected.GET("/questions/:question_id", d.Question.Get)
	protected.POST("/questions", middleware.RequireAdmin(), d.Question.Create)

	protected.POST("/sessions", d.Session.Start)
	protected.GET("/sessions", d.Session.List)
	protected.GET("/sessions/:session_id", d.Session.Get)
	protected.POST("/sessions/:session_id/end", d.Session.End)

	protected.POST("/sessions/:session_id/answers", d.Attempt.Submit)
	protected.POST("/sessions/:session_id/answers/audio", d.Attempt.SubmitAudio)
	protected.GET("/sessions/:session_id/answers", d.Attempt.List)

	if d.Recording != nil {
		protected.POST("/sessions/:session_id/recordings", d.Recording.Upload)
		protected.GET("/sessions/:session_id/recordings", d.Recording.List)
		protected.GET("/recordings/:recording_id/url", d.Recording.SignedURL)
	}

	ws := r.Group("/ws")
	ws.Use(middleware.JWTAuth(d.Tokens))
	ws.GET("/sessions/:session_id/frames", d.WS.FrameStream)
}
