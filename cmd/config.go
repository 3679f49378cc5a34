package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for the server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Map environment variables to Viper keys for Weaviate
	viper.BindEnv("weaviate.host", "WEAVIATE_HOST")
	viper.BindEnv("weaviate.scheme", "WEAVIATE_SCHEME")
	viper.BindEnv("weaviate.class", "WEAVIATE_CLASS")

	// Map environment variables to Viper keys for Ollama
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("ollama.embedding_model", "OLLAMA_EMBEDDING_MODEL")
	viper.BindEnv("ollama.generation_model", "OLLAMA_GENERATION_MODEL")

	// Map environment variables to Viper keys for text extraction
	viper.BindEnv("extractor.mode", "EXTRACTOR_MODE")
	viper.BindEnv("unstructured.url", "UNSTRUCTURED_API_URL")

	// Map environment variables to Viper keys for MinIO
	viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("minio.use_ssl", "MINIO_USE_SSL")
	viper.BindEnv("minio.document_bucket", "MINIO_DOCUMENT_BUCKET")

	// Map environment variables to Viper keys for PostgreSQL
	viper.BindEnv("postgres.host", "POSTGRES_HOST")
	viper.BindEnv("postgres.port", "POSTGRES_PORT")
	viper.BindEnv("postgres.user", "POSTGRES_USER")
	viper.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	viper.BindEnv("postgres.db", "POSTGRES_DB")

	// Map environment variables to Viper keys for RabbitMQ
	viper.BindEnv("amqp.url", "AMQP_URL")

	// Map environment variables to Viper keys for retrieval
	viper.BindEnv("rag.top_k", "RAG_TOP_K")
	viper.BindEnv("rag.hybrid", "RAG_HYBRID")

	// Set default values for the server
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")

	// Set default values for Weaviate
	viper.SetDefault("weaviate.host", "localhost:8080")
	viper.SetDefault("weaviate.scheme", "http")

	// Set default values for Ollama
	viper.SetDefault("ollama.url", "http://localhost:11434")
	viper.SetDefault("ollama.embedding_model", "nomic-embed-text")
	viper.SetDefault("ollama.generation_model", "llama3.1")

	// Set default values for text extraction
	viper.SetDefault("extractor.mode", "local")
	viper.SetDefault("unstructured.url", "http://localhost:8000")

	// Set default values for MinIO. Credentials have no defaults on
	// purpose; missing credentials fail fast at startup.
	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.use_ssl", false)
	viper.SetDefault("minio.document_bucket", "documents")

	// Set default values for PostgreSQL
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.db", "docchat")

	// Set default values for retrieval
	viper.SetDefault("rag.top_k", 5)
	viper.SetDefault("rag.hybrid", false)
}

// requireConfig returns a descriptive error naming every missing required
// key, so misconfiguration surfaces at startup instead of mid-request.
func requireConfig(required map[string]string) error {
	var missing []string
	for key, env := range required {
		if viper.GetString(key) == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("missing required configuration: set %s", strings.Join(missing, ", "))
}
