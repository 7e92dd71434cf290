package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/facteam/blog-api/config"
	"github.com/facteam/blog-api/controllers"
	"github.com/facteam/blog-api/mailer"
	"github.com/facteam/blog-api/middleware"
	"github.com/facteam/blog-api/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, dispatcher *mailer.Dispatcher) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg)
	if err == nil {
		r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
		r.Use(ginzap.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	switch {
	case len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*":
		corsCfg.AllowAllOrigins = true
	case len(cfg.AllowedOrigins) == 0:
		// cors.New rejects an empty origin list
		corsCfg.AllowOrigins = []string{cfg.FrontendURL}
	default:
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(utils.MetricsHandler()))

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db, dispatcher)
	commentController := controllers.NewCommentController(db)
	categoryController := controllers.NewCategoryController(db)
	authorController := controllers.NewAuthorController(db)
	subscriberController := controllers.NewSubscriberController(db, dispatcher)
	adminController := controllers.NewAdminController(db)
	uploadController := controllers.NewUploadController()

	api := r.Group("/api")

	api.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", middleware.AuthRequired(db), authController.Me)
	authGroup.GET("/validate", middleware.AuthRequired(db), authController.Validate)

	postsGroup := api.Group("/posts")
	postsGroup.GET("", postController.ListPublished)
	postsGroup.GET("/search", postController.Search)
	postsGroup.GET("/category/:slug", postController.ListByCategory)
	postsGroup.GET("/author/:username", postController.ListByAuthor)
	postsGroup.GET("/id/:id", postController.GetByID)
	postsGroup.GET("/:slug", postController.GetBySlug)
	postsGroup.POST("/:id/like", postController.Like)
	postsGroup.POST("", middleware.AuthRequired(db),
		middleware.RequireCapability(middleware.ActionContentWrite), postController.Create)
	postsGroup.PUT("/:id", middleware.AuthRequired(db),
		middleware.RequireCapability(middleware.ActionContentWrite), postController.Update)
	postsGroup.DELETE("/:id", middleware.AuthRequired(db),
		middleware.RequireCapability(middleware.ActionAdmin), postController.Delete)

	commentsGroup := api.Group("/comments")
	commentsGroup.GET("/:postId", commentController.ListByPost)
	commentsGroup.POST("", commentController.Create)
	commentModeration := commentsGroup.Group("")
	commentModeration.Use(middleware.AuthRequired(db), middleware.RequireCapability(middleware.ActionAdmin))
	commentModeration.PUT("/:id", commentController.Update)
	commentModeration.PUT("/:id/approve", commentController.Approve)
	commentModeration.DELETE("/:id", commentController.Delete)

	categoriesGroup := api.Group("/categories")
	categoriesGroup.GET("", categoryController.List)
	categoriesGroup.GET("/:slug", categoryController.GetBySlug)
	categoryAdmin := categoriesGroup.Group("")
	categoryAdmin.Use(middleware.AuthRequired(db), middleware.RequireCapability(middleware.ActionAdmin))
	categoryAdmin.POST("", categoryController.Create)
	categoryAdmin.PUT("/:id", categoryController.Update)
	categoryAdmin.DELETE("/:id", categoryController.Delete)

	authorsGroup := api.Group("/authors")
	authorsGroup.GET("", authorController.List)
	authorsGroup.GET("/:username", authorController.GetByUsername)
	authorAdmin := authorsGroup.Group("")
	authorAdmin.Use(middleware.AuthRequired(db), middleware.RequireCapability(middleware.ActionAdmin))
	authorAdmin.POST("", authorController.Create)
	authorAdmin.PUT("/:id", authorController.Update)
	authorAdmin.DELETE("/:id", authorController.Delete)

	subscribersGroup := api.Group("/subscribers")
	subscribersGroup.POST("", subscriberController.Subscribe)
	subscribersGroup.POST("/unsubscribe", subscriberController.Unsubscribe)
	subscriberAdmin := subscribersGroup.Group("")
	subscriberAdmin.Use(middleware.AuthRequired(db), middleware.RequireCapability(middleware.ActionAdmin))
	subscriberAdmin.GET("", subscriberController.List)
	subscriberAdmin.PUT("/:id", subscriberController.Update)
	subscriberAdmin.DELETE("/:id", subscriberController.Delete)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(db), middleware.RequireCapability(middleware.ActionAdmin))
	adminGroup.GET("/stats", adminController.Stats)
	adminGroup.GET("/posts", adminController.AllPosts)
	adminGroup.GET("/comments", adminController.AllComments)
	adminGroup.GET("/users", adminController.AllUsers)
	adminGroup.PUT("/users/:id/role", adminController.UpdateUserRole)
	adminGroup.DELETE("/users/:id", adminController.DeleteUser)

	api.POST("/cloudinary/sign", middleware.AuthRequired(db),
		middleware.RequireCapability(middleware.ActionContentWrite), uploadController.CloudinarySign)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
