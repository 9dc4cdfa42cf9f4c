package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/paperpub/backend/internal/database"
	"github.com/paperpub/backend/internal/handlers"
	"github.com/paperpub/backend/internal/middleware"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Apply the base schema over a plain connection first, then hand a gorm
	// session to the handlers.
	raw, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := raw.Initialize(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	raw.Close()

	db := database.New()

	// Create unified handler
	handler := handlers.NewHandler(db.GetDB())

	// Create server instance
	newServer := &Server{
		db:      db,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Public reads; OptionalAuth lets listings annotate the caller's votes
		public := api.Group("")
		public.Use(middleware.OptionalAuth())
		{
			public.GET("/papers/:paperId", s.handler.Paper.GetPaper)
			public.GET("/papers/:paperId/pub", s.handler.Pub.GetPubByPaper)

			public.GET("/pubs/:id/threads", s.handler.Thread.ListThreads)
			public.GET("/threads/:id", s.handler.Thread.GetThread)
			public.GET("/threads/:id/replies", s.handler.Reply.ListReplies)

			public.GET("/users/:id", s.handler.User.GetUserProfile)
		}

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)

			// Paper registry
			protected.POST("/papers", s.handler.Paper.CreatePaper)
			protected.PUT("/papers/:paperId", s.handler.Paper.UpdatePaper)

			// Pub lifecycle
			protected.POST("/pubs", s.handler.Pub.OpenPub)

			// Thread lifecycle
			protected.POST("/pubs/:id/threads", s.handler.Thread.CreateThread)
			protected.PUT("/threads/:id", s.handler.Thread.UpdateThread)
			protected.DELETE("/threads/:id", s.handler.Thread.DeleteThread)
			protected.POST("/threads/:id/vote", s.handler.Thread.VoteThread)

			// Reply lifecycle
			protected.POST("/threads/:id/replies", s.handler.Reply.CreateReply)
			protected.PUT("/replies/:replyId", s.handler.Reply.UpdateReply)
			protected.DELETE("/replies/:replyId", s.handler.Reply.DeleteReply)
			protected.POST("/replies/:replyId/vote", s.handler.Reply.VoteReply)

			// User protected routes
			protected.PUT("/users/:id", s.handler.User.UpdateUserProfile)
		}
	}

	return r
}
