package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arya-labs/aryamail/internal/api/handlers"
	"github.com/arya-labs/aryamail/internal/config"
	"github.com/arya-labs/aryamail/internal/domain"
	"github.com/arya-labs/aryamail/internal/gemini"
	"github.com/arya-labs/aryamail/internal/mail"
	"github.com/arya-labs/aryamail/internal/openai"
	"github.com/arya-labs/aryamail/internal/repository"
	"github.com/arya-labs/aryamail/internal/server"
	"github.com/arya-labs/aryamail/internal/service"
	"github.com/arya-labs/aryamail/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the autoresponder API server",
		Long:  "Start the HTTP server that exposes the email check trigger and health endpoints",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		for _, name := range missing {
			log.Printf("missing required setting: %s", name)
		}
		return fmt.Errorf("%w: %s", domain.ErrMissingCredentials, strings.Join(missing, ", "))
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	if portFlag, _ := cmd.Flags().GetString("port"); portFlag != "" {
		cfg.Port = portFlag
	}

	// The knowledge base is opened lazily on the first trigger so the
	// server can come up before build-kb has run.
	factory := func(ctx context.Context) (handlers.MailboxProcessor, error) {
		embedder := openai.NewClient(cfg.OpenAIAPIKey)
		store, err := repository.Open(cfg.KnowledgeDBPath, embedder.GenerateEmbedding)
		if err != nil {
			return nil, err
		}
		log.Printf("knowledge base opened at %s (%d chunk(s))", cfg.KnowledgeDBPath, store.Count())

		dialer := mail.NewIMAPDialer(cfg.IMAPAddr(), cfg.EmailAccount, cfg.EmailPassword)
		sender := mail.NewSMTPSender(cfg.SMTPServer, cfg.SMTPPort, cfg.EmailAccount, cfg.EmailPassword)
		replies := service.NewReplyService(gemini.NewClient(cfg.GeminiAPIKey))

		return service.NewMailboxService(&imapDialerAdapter{dialer: dialer}, sender, store, replies), nil
	}

	routerCfg := server.RouterConfig{
		TriggerHandler: handlers.NewTriggerHandler(factory),
	}
	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

type imapDialerAdapter struct {
	dialer *mail.IMAPDialer
}

func (a *imapDialerAdapter) Dial(ctx context.Context) (service.MailboxSession, error) {
	return a.dialer.Dial(ctx)
}
