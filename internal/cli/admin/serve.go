package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courseloop/coursegw/internal/api/handlers"
	"github.com/courseloop/coursegw/internal/config"
	"github.com/courseloop/coursegw/internal/domain"
	"github.com/courseloop/coursegw/internal/genai"
	"github.com/courseloop/coursegw/internal/searchsvc"
	"github.com/courseloop/coursegw/internal/server"
	"github.com/courseloop/coursegw/internal/service"
	"github.com/courseloop/coursegw/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway server",
		Long:  "Start the course search/answer gateway on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
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

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	searchClient := searchsvc.NewClient(cfg.SearchBaseURL())
	log.Printf("search backend: %s", cfg.SearchBaseURL())

	var answerSvc handlers.AnswerProvider
	if cfg.HasGenAI() {
		genClient := genai.NewClientWithConfig(genai.Config{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.GenModel,
		})
		answerSvc = service.NewAnswerService(searchClient, genClient)
		log.Printf("answer service enabled (model: %s)", cfg.GenModel)
	} else {
		answerSvc = &NoOpAnswerService{}
		log.Println("answer service disabled: COURSEGW_OPENAI_API_KEY not set")
	}

	routerCfg := server.RouterConfig{
		SearchHandler: handlers.NewSearchHandler(searchClient, answerSvc),
		HealthHandler: handlers.NewHealthHandler(searchClient),
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

type NoOpAnswerService struct{}

func (s *NoOpAnswerService) Answer(ctx context.Context, input service.AnswerInput) (*domain.AnswerResult, error) {
	return nil, domain.NewDomainError(domain.ErrCodeNotConfigured, "answer service not configured: COURSEGW_OPENAI_API_KEY required")
}
