package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/arya-labs/aryamail/internal/config"
	"github.com/arya-labs/aryamail/internal/openai"
	"github.com/arya-labs/aryamail/internal/repository"
	"github.com/arya-labs/aryamail/internal/scrape"
	"github.com/arya-labs/aryamail/internal/service"
)

// BuildKBCmd returns the build-kb command
func BuildKBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-kb",
		Short: "Scrape the FAQ page and rebuild the knowledge base",
		Long:  "Fetch the FAQ page, extract the relevant question/answer pairs, chunk and embed them, and replace the on-disk vector index",
		RunE:  runBuildKB,
	}

	cmd.Flags().String("url", "", "FAQ page URL (overrides FAQ_URL)")
	cmd.Flags().String("db", "", "Knowledge base directory (overrides KNOWLEDGE_DB_PATH)")

	return cmd
}

func runBuildKB(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required to embed the knowledge base")
	}

	if urlFlag, _ := cmd.Flags().GetString("url"); urlFlag != "" {
		cfg.FAQURL = urlFlag
	}
	if dbFlag, _ := cmd.Flags().GetString("db"); dbFlag != "" {
		cfg.KnowledgeDBPath = dbFlag
	}

	embedder := openai.NewClient(cfg.OpenAIAPIKey)
	store, err := repository.Create(cfg.KnowledgeDBPath, embedder.GenerateEmbedding)
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}

	builder := service.NewKnowledgeBuilder(scrape.NewScraper(), store, cfg.FAQURL)

	count, err := builder.Build(ctx)
	if err != nil {
		return err
	}

	log.Printf("knowledge base rebuilt: %d chunk(s) stored at %s", count, cfg.KnowledgeDBPath)
	return nil
}
