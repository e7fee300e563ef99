package router

import (
	"os"

	"codeask/internal/handlers"
	"codeask/internal/middleware"
	"codeask/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	rateLimitRPS   = 5
	rateLimitBurst = 10
)

// RegisterRoutes wires services, middleware and the REST surface onto the
// engine.
func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	// Services
	notifier := services.NewNotifier(db)
	notifier.NotifyOnDownvote = os.Getenv("NOTIFY_ON_DOWNVOTE") == "true"
	tagService := services.NewTagService(db)
	questionService := services.NewQuestionService(db, tagService)
	answerService := services.NewAnswerService(db, notifier)
	voteService := services.NewVoteService(db, notifier)

	// Handlers
	authHandler := handlers.NewAuthHandler(db)
	questionHandler := handlers.NewQuestionHandler(questionService, answerService, voteService, tagService)
	answerHandler := handlers.NewAnswerHandler(answerService, voteService)
	notificationHandler := handlers.NewNotificationHandler(notifier)
	userHandler := handlers.NewUserHandler(db, questionService, answerService)

	// Middleware
	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.LoadUser(db))
	limiter := middleware.NewIPRateLimiter(rate.Limit(rateLimitRPS), rateLimitBurst)

	api := r.Group("/api")

	// Public routes
	api.POST("/auth/signup", middleware.RateLimit(limiter), authHandler.Signup)
	api.POST("/auth/login", middleware.RateLimit(limiter), authHandler.Login)

	api.GET("/questions", questionHandler.List)
	api.GET("/questions/tags", questionHandler.Tags)
	api.GET("/questions/:id", questionHandler.Detail)

	api.GET("/users/:id", userHandler.Profile)
	api.GET("/users/:id/questions", userHandler.Questions)
	api.GET("/users/:id/answers", userHandler.Answers)

	// Protected routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/auth/me", authHandler.Me)
		authorized.PUT("/auth/profile", authHandler.UpdateProfile)

		authorized.POST("/questions", middleware.RateLimit(limiter), questionHandler.Create)
		authorized.PUT("/questions/:id", questionHandler.Update)
		authorized.DELETE("/questions/:id", questionHandler.Delete)
		authorized.POST("/questions/:id/vote", questionHandler.Vote)
		authorized.POST("/questions/:id/bookmark", questionHandler.Bookmark)
		authorized.POST("/questions/:id/reconcile", questionHandler.Reconcile)

		authorized.POST("/answers", middleware.RateLimit(limiter), answerHandler.Create)
		authorized.PUT("/answers/:id", answerHandler.Update)
		authorized.DELETE("/answers/:id", answerHandler.Delete)
		authorized.POST("/answers/:id/vote", answerHandler.Vote)
		authorized.POST("/answers/:id/accept", answerHandler.Accept)

		authorized.GET("/notifications", notificationHandler.List)
		authorized.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		authorized.PUT("/notifications/:id/read", notificationHandler.Read)
		authorized.PUT("/notifications/read-all", notificationHandler.ReadAll)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)
	}
}
