/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/docbricks-be/config"
	"github.com/tieubaoca/docbricks-be/handler"
	"github.com/tieubaoca/docbricks-be/logger"
	"github.com/tieubaoca/docbricks-be/service"
	"github.com/tieubaoca/docbricks-be/store"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the PDF chat server",
	Long:  `Starts a server that uploads PDFs into the workspace and answers questions about them`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		logCfg := logger.Config{Level: "info", Pretty: true}
		workspaceManager := service.NewWorkspaceManager(logger.New("workspace", logCfg))

		// Connect up front when credentials are configured; the connect
		// endpoint can establish or rebind the connection later either way.
		if cfg.DatabricksHost != "" && cfg.DatabricksToken != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			user, err := workspaceManager.Connect(ctx, cfg.DatabricksHost, cfg.DatabricksToken)
			cancel()
			if err != nil {
				log.Printf("Workspace connection failed, waiting for connect request: %v", err)
			} else {
				log.Printf("Connected to workspace as %s", user)
			}
		}

		// Initialize services
		sessions, err := buildSessionStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize session store: %v", err)
		}

		// Configure the AI provider up front when the config names one; the
		// configure endpoint can select or switch providers later either way.
		aiManager := service.NewAIManager(workspaceManager, cfg.WarehouseID, logger.New("ai", logCfg))
		if cfg.AI.Provider != "" {
			if err := aiManager.Configure(service.AISettings{
				Provider:      cfg.AI.Provider,
				Model:         cfg.AI.Model,
				Endpoint:      cfg.AI.Endpoint,
				OpenAIAPIKey:  cfg.AI.OpenAIAPIKey,
				GeminiAPIKeys: cfg.AI.GeminiAPIKeys,
			}); err != nil {
				log.Printf("AI provider configuration failed, waiting for configure request: %v", err)
			}
		}

		pdfService := service.NewPDFService(cfg.AI.MaxDocChars)
		queryService := service.NewQueryService(
			workspaceManager,
			aiManager,
			sessions,
			pdfService,
			logger.New("query", logCfg),
		)
		wsService := service.NewWebSocketService(queryService)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		connectHandler := handler.NewConnectHandler(workspaceManager)
		aiHandler := handler.NewAIHandler(aiManager)
		uploadHandler := handler.NewUploadHandler(workspaceManager, cfg.WorkspaceBaseDir)
		pdfHandler := handler.NewPDFHandler(workspaceManager, cfg.WorkspaceBaseDir)
		chatHandler := handler.NewChatHandler(queryService)

		// Setup Gin router
		router := gin.Default()

		// Apply global middleware
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "Workspace PDF chat API",
				"status":  "running",
			})
		})
		router.GET("/health", func(c *gin.Context) {
			_, err := workspaceManager.Gateway()
			c.JSON(http.StatusOK, gin.H{
				"status":              "healthy",
				"timestamp":           time.Now().Format(time.RFC3339),
				"workspace_connected": err == nil,
			})
		})

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/workspace/connect", connectHandler.HandleConnect)
			apiV1.POST("/ai/configure", aiHandler.HandleConfigure)
			apiV1.POST("/pdf/upload", uploadHandler.UploadPDFHandler)
			apiV1.GET("/pdf/list", pdfHandler.HandleList)
			apiV1.POST("/chat/query", chatHandler.HandleQuery)
			apiV1.GET("/chat/history/:conversation_id", chatHandler.HandleHistory)
			apiV1.DELETE("/chat/history/:conversation_id", chatHandler.HandleClear)
			apiV1.GET("/chat/ws", func(c *gin.Context) {
				wsService.HandleChat(c.Writer, c.Request)
			})
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func buildSessionStore(cfg *config.Config) (store.SessionStore, error) {
	switch cfg.Store.Backend {
	case "mongo":
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.Store.MongoURI))
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Ping(ctx, nil); err != nil {
			return nil, err
		}
		collection := client.Database("docbricks").Collection("conversations")
		return store.NewMongoStore(collection), nil
	default:
		return store.NewMemoryStore(cfg.Store.MaxTurns), nil
	}
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
