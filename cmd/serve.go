package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	httphandler "docchat/handler/http"
	"docchat/src/core/docqa"
	"docchat/src/infrastructure/integrations/ollama"
	"docchat/src/infrastructure/integrations/pdfextract"
	"docchat/src/infrastructure/integrations/unstructured"
	"docchat/src/infrastructure/job"
	"docchat/src/infrastructure/log"
	"docchat/src/storage/minioctrl"
	"docchat/src/storage/postgres/documentctrl"
	"docchat/src/storage/weaviate"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the document question answering server",
	Long:  `The serve command starts an HTTP server that accepts PDF uploads and answers questions about their content`,
	Run:   RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer(cmd *cobra.Command, args []string) {
	if err := requireConfig(map[string]string{
		"minio.access_key":  "MINIO_ACCESS_KEY",
		"minio.secret_key":  "MINIO_SECRET_KEY",
		"postgres.password": "POSTGRES_PASSWORD",
	}); err != nil {
		log.Error(err, "Invalid configuration")
		os.Exit(1)
	}

	// Initialize PostgreSQL connection
	host := viper.GetString("postgres.host")
	user := viper.GetString("postgres.user")
	password := viper.GetString("postgres.password")
	dbname := viper.GetString("postgres.db")
	port := viper.GetString("postgres.port")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Error(err, "Failed to connect to database")
		return
	}

	if err := db.AutoMigrate(&documentctrl.Document{}, &job.Job{}); err != nil {
		log.Error(err, "Failed to migrate database schema")
		return
	}

	// Initialize Ollama client
	ollamaClient, err := ollama.NewClient(
		viper.GetString("ollama.url"),
		&http.Client{Timeout: 120 * time.Second},
		viper.GetString("ollama.embedding_model"),
		viper.GetString("ollama.generation_model"),
	)
	if err != nil {
		log.Error(err, "Failed to create ollama client")
		return
	}

	// Initialize Weaviate client and chunk index
	wc := weaviateClient.New(weaviateClient.Config{
		Host:   viper.GetString("weaviate.host"),
		Scheme: viper.GetString("weaviate.scheme"),
	})
	index := weaviate.NewChunkIndex(weaviate.NewSDK(wc), viper.GetString("weaviate.class"))
	if err := index.EnsureSchema(context.Background()); err != nil {
		log.Error(err, "Failed to ensure weaviate schema")
		return
	}

	// Initialize text extractor
	extractor, err := newExtractor()
	if err != nil {
		log.Error(err, "Failed to create text extractor")
		return
	}

	// Initialize MinioService and the document bucket
	minioService, err := minioctrl.NewMinioService(
		viper.GetString("minio.endpoint"),
		viper.GetString("minio.access_key"),
		viper.GetString("minio.secret_key"),
		viper.GetBool("minio.use_ssl"),
	)
	if err != nil {
		log.Error(err, "Failed to create minio service")
		return
	}
	bucketName := viper.GetString("minio.document_bucket")
	if err := minioService.EnsureBucketExists(context.Background(), bucketName); err != nil {
		log.Error(err, "Failed to ensure document bucket")
		return
	}

	// Initialize document registry
	documentService, err := documentctrl.NewDocumentService(db)
	if err != nil {
		log.Error(err, "Failed to create document service")
		return
	}

	// Initialize pipelines
	ingestService := docqa.NewIngestService(extractor, ollamaClient, index)
	queryService := docqa.NewQueryService(ollamaClient, ollamaClient, index, docqa.QueryOptions{
		TopK:   viper.GetInt("rag.top_k"),
		Hybrid: viper.GetBool("rag.hybrid"),
	})

	// Initialize async job service when a broker is configured. Without
	// AMQP_URL the server still works, uploads just ingest synchronously.
	var jobService *job.JobService
	if amqpURL := viper.GetString("amqp.url"); amqpURL != "" {
		logger := watermill.NewStdLogger(false, false)
		amqpPublisher, err := amqp.NewPublisher(amqp.NewDurableQueueConfig(amqpURL), logger)
		if err != nil {
			log.Error(err, "Failed to create amqp publisher")
			return
		}
		defer amqpPublisher.Close()

		jobRepo := job.NewPostgresJobRepository(db)
		ingestionTask := job.NewIngestionTask(documentService, minioService, ingestService)
		jobService = job.NewJobService(amqpPublisher, jobRepo, logger, ingestionTask)
	}

	// Initialize HTTP handler
	handler := httphandler.NewHandler(
		ingestService,
		queryService,
		documentService,
		minioService,
		bucketName,
		jobService,
	)

	// Setup gin router
	r := gin.Default()

	// Register routes
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			return
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Get underlying *sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		log.Error(err, "Failed to get underlying *sql.DB")
	} else {
		// Close database connection
		if err := sqlDB.Close(); err != nil {
			log.Error(err, "Error closing database connection")
		}
	}

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}

// newExtractor picks the text extraction backend from configuration. The
// local extractor needs no external service; the unstructured mode delegates
// to a running Unstructured API.
func newExtractor() (docqa.TextExtractor, error) {
	switch mode := viper.GetString("extractor.mode"); mode {
	case "local":
		return pdfextract.NewLocalExtractor(), nil
	case "unstructured":
		return unstructured.NewService(
			viper.GetString("unstructured.url"),
			&http.Client{Timeout: 120 * time.Second},
		), nil
	default:
		return nil, fmt.Errorf("unknown extractor mode %q, want local or unstructured", mode)
	}
}
