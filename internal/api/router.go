// Package api exposes the interview flow over HTTP with gin.
package api

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"interviewbuddy/app"
	"interviewbuddy/internal/config"
)

// Services are the application services the handlers call into.
type Services struct {
	Auth       *app.AuthService
	Interviews *app.InterviewService
	Reports    *app.ReportService
	Stats      *app.StatsService
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error": "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
	})
}

func newLimiter(window time.Duration, limit uint) gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  window,
		Limit: limit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})
}

// NewRouter builds the engine with middleware and every route.
func NewRouter(log *zap.Logger, cfg *config.Config, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(cfg.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cfg.Auth.TokenTTL.Seconds()),
	})
	router.Use(sessions.Sessions(sessionName, store))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		IsDevelopment:      cfg.Server.GinMode != gin.ReleaseMode,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	tokens := NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authHandler := NewAuthHandler(svc.Auth, svc.Interviews, tokens, log)
	interviewHandler := NewInterviewHandler(svc.Interviews)
	reportHandler := NewReportHandler(svc.Reports, svc.Stats)

	loginLimiter := newLimiter(cfg.Auth.RateLimitWindow, cfg.Auth.LoginRateLimit)
	generateLimiter := newLimiter(cfg.Auth.RateLimitWindow, cfg.Auth.GenerateLimit)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/api/catalog", interviewHandler.Catalog)

	authRoutes := router.Group("/api/auth")
	{
		authRoutes.POST("/signup", loginLimiter, authHandler.Signup)
		authRoutes.POST("/login", loginLimiter, authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	authorized := router.Group("/")
	authorized.Use(AuthRequired(tokens, log))
	{
		authorized.GET("/api/auth/me", authHandler.Me)
		authorized.GET("/api/state", interviewHandler.State)
		authorized.POST("/api/setup", interviewHandler.SubmitSetup)

		interviewRoutes := authorized.Group("/api/interview")
		{
			interviewRoutes.POST("/generate", generateLimiter, interviewHandler.Generate)
			interviewRoutes.GET("", interviewHandler.Current)
			interviewRoutes.DELETE("", interviewHandler.Abandon)
			interviewRoutes.POST("/answer", interviewHandler.SubmitAnswer)
			interviewRoutes.POST("/next", interviewHandler.Next)
			interviewRoutes.POST("/previous", interviewHandler.Previous)
			interviewRoutes.POST("/jump", interviewHandler.Jump)
			interviewRoutes.POST("/complete", interviewHandler.Complete)
		}

		reportRoutes := authorized.Group("/api/reports")
		{
			reportRoutes.GET("", reportHandler.List)
			reportRoutes.GET("/recent", reportHandler.Recent)
			reportRoutes.GET("/:id", reportHandler.Get)
			reportRoutes.DELETE("/:id", reportHandler.Delete)
			reportRoutes.GET("/:id/export", reportHandler.Export)
		}
		authorized.GET("/reports/:id", reportHandler.View)

		authorized.GET("/api/stats", reportHandler.Stats)
		authorized.GET("/api/stats/detailed", reportHandler.DetailedStats)
	}

	return router
}
