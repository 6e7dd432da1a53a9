package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"gameforum/client/internal/config"
	"gameforum/client/internal/handler"
	"gameforum/client/internal/remote"
	"gameforum/client/internal/storage"
	"gameforum/client/internal/store"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "gameforum/client/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Game Forum API
// @version         1.0
// @description     Local-first game catalogue and forum, mirrored to a hosted backend.
// @host            localhost:8080
// @BasePath        /api/v1
func main() {
	flag.Parse() // glog flags

	local, err := storage.Open(config.AppConfig.StorePath)
	if err != nil {
		log.Fatalf("Failed to open local storage: %v", err)
	}
	defer local.Close()

	var backend store.Backend
	if config.AppConfig.SupabaseURL != "" {
		backend = remote.NewClient(config.AppConfig.SupabaseURL, config.AppConfig.SupabaseAnonKey)
	} else {
		log.Println("Warning: SUPABASE_URL not set, running local-only")
	}

	app := store.New(backend)
	raw, err := local.Get(store.StorageKey)
	if err != nil {
		log.Printf("Warning: reading snapshot failed, starting from seed data: %v", err)
	}
	app.Load(raw)
	app.OnChange(func(blob []byte) error {
		return local.Put(store.StorageKey, blob)
	})

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	h := handler.New(app)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/signup", h.SignUp)
			authRoutes.POST("/signin", h.SignIn)
			authRoutes.POST("/signout", h.SignOut)
			authRoutes.GET("/me", h.Me)
		}

		gameRoutes := apiV1.Group("/games")
		{
			gameRoutes.GET("", h.GetGames)
			gameRoutes.POST("", h.CreateGame)
			gameRoutes.GET("/:id", h.GetGameByID)
			gameRoutes.POST("/:id/ratings", h.AddRating)
		}

		postRoutes := apiV1.Group("/posts")
		{
			postRoutes.GET("", h.GetPosts)
			postRoutes.POST("", h.CreatePost)
			postRoutes.GET("/:id", h.GetPostByID)
			postRoutes.POST("/:id/comments", h.AddComment)
			postRoutes.POST("/:id/like", h.LikePost)
		}

		searchRoutes := apiV1.Group("/search")
		{
			searchRoutes.PUT("/games", h.SetGameSearch)
			searchRoutes.PUT("/posts", h.SetForumSearch)
		}

		userRoutes := apiV1.Group("/users")
		{
			userRoutes.GET("/:name/followers", h.GetFollowers)
			userRoutes.GET("/:name/following", h.GetFollowing)

			protected := userRoutes.Group("")
			protected.Use(h.RequireSession())
			{
				protected.POST("/:name/follow", h.FollowUser)
				protected.DELETE("/:name/follow", h.UnfollowUser)
			}
		}

		meRoutes := apiV1.Group("/me")
		meRoutes.Use(h.RequireSession())
		{
			meRoutes.PUT("/avatar", h.UpdateAvatar)
		}
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ListenAddr)
	fmt.Printf("Swagger UI is available at http://localhost%s/swagger/index.html\n", config.AppConfig.ListenAddr)
	log.Fatal(router.Run(config.AppConfig.ListenAddr))
}
