package httptransport

import (
	"log/slog"

	"github.com/gefest173/meteora/internal/repository"
	"github.com/gefest173/meteora/internal/token"
	"github.com/gefest173/meteora/internal/transport/http/handler"
	"github.com/gefest173/meteora/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	weatherHandler *handler.WeatherHandler,
	userRepo repository.UserRepository,
	issuer *token.Issuer,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Public auth routes
	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/verify", authHandler.Verify)
	auth.POST("/login/send_code", authHandler.SendLoginCode)
	auth.POST("/login/verify_code", authHandler.VerifyLoginCode)

	// Protected weather routes
	authMW := middleware.Auth(issuer)
	currentUser := middleware.CurrentUser(userRepo, logger)

	protected := r.Group("", authMW, currentUser)
	protected.GET("/weather/:city", weatherHandler.GetWeather)
	protected.GET("/history", weatherHandler.History)
	protected.DELETE("/history/:id", weatherHandler.DeleteHistory)

	return r
}
