package router

import (
	"debatehub/internal/config"
	"debatehub/internal/handlers"
	"debatehub/internal/middleware"
	"debatehub/internal/services"
	"debatehub/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "debatehub_session"

// Deps is everything the route table needs.
type Deps struct {
	Users         *services.UserService
	Debates       *services.DebateService
	Comments      *services.CommentService
	Opinions      *services.OpinionService
	Ranking       *services.RankingService
	Notifications *services.NotificationService
	Messages      *services.MessageService
	Chat          *services.ChatService
	Admin         *services.AdminService

	Lookup middleware.UserLookup
	Ticker handlers.Ticker
	DB     handlers.Pinger // nil when running on the in-memory store
}

// New builds the engine with logging, CORS, sessions and identity loading.
func New(cfg config.ServerConfig, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(utils.LogWriter()), gin.Recovery())

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Accept", "Content-Type", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * 3600,
		}))
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.LoadUser(deps.Lookup, cfg.TrustedHeader))

	RegisterRoutes(r, deps)
	return r
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	// Handlers
	healthHandler := handlers.NewHealthHandler(deps.DB)
	categoryHandler := handlers.NewCategoryHandler(deps.Debates)
	debateHandler := handlers.NewDebateHandler(deps.Debates)
	bookmarkHandler := handlers.NewBookmarkHandler(deps.Debates)
	commentHandler := handlers.NewCommentHandler(deps.Comments)
	opinionHandler := handlers.NewOpinionHandler(deps.Opinions)
	chatHandler := handlers.NewChatHandler(deps.Chat)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Ranking)
	notificationHandler := handlers.NewNotificationHandler(deps.Notifications)
	messageHandler := handlers.NewMessageHandler(deps.Messages)
	adminHandler := handlers.NewAdminHandler(deps.Admin, deps.Ticker)

	r.GET("/healthz", healthHandler.Check)

	api := r.Group("/api")

	// Public Routes
	api.GET("/categories", categoryHandler.List)
	api.GET("/debates", debateHandler.List)
	api.GET("/debates/:id", debateHandler.Detail)
	api.GET("/debates/:id/comments", commentHandler.List)
	api.GET("/debates/:id/opinions", opinionHandler.List)
	api.GET("/debates/:id/chat", chatHandler.Recent)
	api.GET("/users/:id", userHandler.Profile)
	api.GET("/rankings", userHandler.Ranking)

	// Protected Routes
	authorized := api.Group("")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/me", userHandler.Me)

		authorized.POST("/debates", debateHandler.Create)
		authorized.PUT("/debates/:id", debateHandler.Update)
		authorized.DELETE("/debates/:id", debateHandler.Delete)
		authorized.GET("/debates/:id/like", debateHandler.LikeStatus)
		authorized.POST("/debates/:id/like", debateHandler.ToggleLike)
		authorized.POST("/debates/:id/bookmark", bookmarkHandler.Toggle)
		authorized.GET("/bookmarks", bookmarkHandler.List)

		authorized.POST("/debates/:id/comments", commentHandler.Create)
		authorized.PUT("/comments/:cid", commentHandler.Update)
		authorized.DELETE("/comments/:cid", commentHandler.Delete)
		authorized.POST("/comments/:cid/like", commentHandler.ToggleLike)

		authorized.POST("/debates/:id/opinions", opinionHandler.Create)

		authorized.POST("/debates/:id/chat", chatHandler.Send)
		authorized.GET("/debates/:id/chat/stream", chatHandler.Stream)

		authorized.GET("/notifications", notificationHandler.List)
		authorized.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		authorized.POST("/notifications/read-all", notificationHandler.ReadAll)
		authorized.POST("/notifications/:id/read", notificationHandler.Read)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)

		authorized.POST("/messages", messageHandler.Send)
		authorized.GET("/messages/inbox", messageHandler.Inbox)
		authorized.GET("/messages/sent", messageHandler.Sent)
		authorized.POST("/messages/:id/read", messageHandler.Read)
	}

	// Admin Routes
	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/debates/:id/comments", adminHandler.DebateComments)
		admin.POST("/debates/:id/hide", adminHandler.ToggleDebateHidden)
		admin.GET("/comments", adminHandler.SearchComments)
		admin.POST("/comments/:cid/hide", adminHandler.ToggleCommentHidden)
		admin.DELETE("/comments/:cid", adminHandler.DeleteComment)
		admin.POST("/scheduler/tick", adminHandler.Tick)
	}
}
