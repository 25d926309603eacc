package router

import (
	"time"

	"github.com/campfire-dev/campfire/internal/auth"
	"github.com/campfire-dev/campfire/internal/handlers"
	"github.com/campfire-dev/campfire/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries everything the route table needs; it is assembled once
// in main.
type Deps struct {
	DB             *gorm.DB
	Tokens         *auth.TokenManager
	AllowedOrigins []string

	Auth     *handlers.AuthHandler
	Posts    *handlers.PostHandler
	Comments *handlers.CommentHandler
	Projects *handlers.ProjectHandler
	Hub      *handlers.Hub
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireAuth := middleware.AuthMiddleware(deps.Tokens, deps.DB)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:project_id", requireAuth, deps.Hub.Serve)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", deps.Auth.Register)
			authRoutes.POST("/login", deps.Auth.Login)
			authRoutes.POST("/logout", deps.Auth.Logout)
			authRoutes.GET("/me", requireAuth, deps.Auth.Me)
			authRoutes.PATCH("/me", requireAuth, deps.Auth.UpdateProfile)
		}

		me := api.Group("/me", requireAuth)
		{
			me.GET("/projects", deps.Projects.ListMine)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("/:user_id/stats", deps.Auth.Stats)
			users.GET("/:user_id/posts", deps.Posts.MyPosts)
			users.GET("/:user_id/liked-posts", deps.Posts.LikedPosts)
			users.DELETE("/:user_id", deps.Auth.DeleteAccount)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", deps.Posts.List)
			posts.GET("/:post_id", deps.Posts.Get)
			posts.GET("/:post_id/comments", deps.Posts.ListComments)

			posts.POST("", requireAuth, deps.Posts.Create)
			posts.PUT("/:post_id", requireAuth, deps.Posts.Update)
			posts.DELETE("/:post_id", requireAuth, deps.Posts.Delete)
			posts.POST("/:post_id/like", requireAuth, deps.Posts.ToggleLike)
			posts.POST("/:post_id/comments", requireAuth, deps.Posts.CreateComment)
		}

		comments := api.Group("/comments", requireAuth)
		{
			comments.PUT("/:comment_id", deps.Comments.Update)
			comments.DELETE("/:comment_id", deps.Comments.Delete)
			comments.POST("/:comment_id/like", deps.Comments.ToggleLike)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", deps.Projects.List)
			projects.GET("/:project_id", deps.Projects.Get)
			projects.GET("/:project_id/members", deps.Projects.Members)
			projects.GET("/:project_id/comments", deps.Projects.ListComments)

			projects.POST("", requireAuth, deps.Projects.Create)
			projects.PATCH("/:project_id", requireAuth, deps.Projects.Update)
			projects.DELETE("/:project_id", requireAuth, deps.Projects.Delete)
			projects.POST("/:project_id/join", requireAuth, deps.Projects.Join)
			projects.DELETE("/:project_id/leave", requireAuth, deps.Projects.Leave)
			projects.POST("/:project_id/comments", requireAuth, deps.Projects.CreateComment)
		}

		projectComments := api.Group("/project-comments", requireAuth)
		{
			projectComments.DELETE("/:comment_id", deps.Projects.DeleteComment)
		}
	}

	return r
}
