package router

import (
	"github.com/gin-gonic/gin"

	"ppoeval/internal/config"
	"ppoeval/internal/handler"
	"ppoeval/internal/middleware"
)

// EvaluationPaths are the routes serving the evaluation endpoint. The first
// two keep the serverless deployments' URLs working.
var EvaluationPaths = []string{
	"/api/gemini",
	"/.netlify/functions/gemini",
	"/api/v1/evaluaciones",
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	evalH *handler.EvaluationHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Any other method on a registered path lands here.
	r.NoMethod(evalH.MethodNotAllowed)

	limited := r.Group("")
	limited.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateBurst))
	limited.Use(middleware.BodyLimit(cfg.Server.MaxBodyMB))
	for _, path := range EvaluationPaths {
		limited.POST(path, evalH.Evaluate)
	}

	return r
}
