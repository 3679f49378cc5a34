package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"

	"docchat/src/core/docqa"
	"docchat/src/infrastructure/integrations/ollama"
	"docchat/src/storage/weaviate"
)

// ingestCmd ingests a local PDF straight into the vector index, bypassing
// the upload API. Useful for seeding an index from the command line.
var ingestCmd = &cobra.Command{
	Use:   "ingest [pdf file]",
	Short: "Ingest a local PDF into the vector index",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", path, err)
	}

	// Initialize Ollama client
	ollamaClient, err := ollama.NewClient(
		viper.GetString("ollama.url"),
		&http.Client{Timeout: 120 * time.Second},
		viper.GetString("ollama.embedding_model"),
		viper.GetString("ollama.generation_model"),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize ollama client: %v", err)
	}

	// Initialize Weaviate chunk index
	wc := weaviateClient.New(weaviateClient.Config{
		Host:   viper.GetString("weaviate.host"),
		Scheme: viper.GetString("weaviate.scheme"),
	})
	index := weaviate.NewChunkIndex(weaviate.NewSDK(wc), viper.GetString("weaviate.class"))
	if err := index.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("failed to ensure weaviate schema: %v", err)
	}

	// Initialize text extractor
	extractor, err := newExtractor()
	if err != nil {
		return err
	}

	ingestService := docqa.NewIngestService(extractor, ollamaClient, index)

	// The chunk total is only known once extraction finishes, so the bar is
	// created on the first progress callback.
	var bar *progressbar.ProgressBar
	ingestService.OnProgress = func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "embedding chunks")
		}
		bar.Set(done)
	}

	result, err := ingestService.Ingest(context.Background(), content, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("ingestion failed: %v", err)
	}
	if bar != nil {
		bar.Finish()
	}

	fmt.Printf("Ingested %s into namespace %q (%d chunks)\n", filepath.Base(path), result.Namespace, result.ChunkCount)
	return nil
}
