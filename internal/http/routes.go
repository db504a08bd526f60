package http

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/sujalbistaa/confide/internal/store"
)

// --- Configuration Constants ---
const (
	rateLimitRPS   = 1.0 / 3.0 // 1 write every 3 seconds per IP
	rateLimitBurst = 1
)

// SetupRoutes configures all application routes and middleware.
func SetupRoutes(router *gin.Engine, db *gorm.DB) {

	// --- Dependencies ---
	env := &Env{Stores: store.New(db)}

	// --- Middleware ---

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	// CORS Middleware
	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "*" // Default to allow all for local dev
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// --- Rate Limiter Setup ---
	limiter := NewIPRateLimiter(rate.Limit(rateLimitRPS), rateLimitBurst)
	limiter.StartCleanup(10 * time.Minute)

	// --- API Routes ---

	router.GET("/healthz", env.Healthz)

	router.POST("/confessions", RateLimitMiddleware(limiter), env.CreateConfession)
	router.GET("/confessions", env.GetConfessions)
	router.GET("/confessions/near", env.GetNearConfessions)
	router.GET("/confessions/trending", env.GetTrendingConfessions)
	router.GET("/confessions/random", env.GetRandomConfessions)
	router.GET("/confessions/mine", env.GetMyConfessions)
	router.DELETE("/confessions/:id", AdminAuthMiddleware(), env.HideConfession)

	router.POST("/likes", env.LikeConfession)
	router.GET("/likes", env.HasLiked)
	router.DELETE("/likes", env.UnlikeConfession)

	router.POST("/reports", env.ReportConfession)
	router.GET("/reports", env.HasReported)

	router.POST("/comments", RateLimitMiddleware(limiter), env.CreateComment)
	router.GET("/comments", env.GetComments)
}
