package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/carnance/crm-sync-backend/internal/config"
	"github.com/carnance/crm-sync-backend/internal/infra/database"
	"github.com/carnance/crm-sync-backend/internal/infra/http/handlers"
	"github.com/carnance/crm-sync-backend/internal/infra/http/middleware"
	"github.com/carnance/crm-sync-backend/internal/infra/integration/openai"
	"github.com/carnance/crm-sync-backend/internal/infra/integration/twentycrm"
	"github.com/carnance/crm-sync-backend/internal/infra/mail"
	"github.com/carnance/crm-sync-backend/internal/infra/queue"
	"github.com/carnance/crm-sync-backend/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ database: %v", err)
	}
	defer db.Close()

	// RabbitMQ is optional: without it we just skip outcome events and
	// failure alerts, sync itself is unaffected.
	var rabbitConn *amqp.Connection
	var producer usecase.SyncEventPublisher
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("⚠️ rabbitmq: %v (sync events disabled)", err)
		} else {
			defer rabbitMQ.Conn.Close()
			defer rabbitMQ.Ch.Close()
			rabbitConn = rabbitMQ.Conn
			producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

			// Alert worker: consumes sync-outcome events and mails failures.
			if cfg.SMTP.Host != "" && cfg.SMTP.AlertTo != "" {
				mailSender := mail.NewEmailSender(
					cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From,
				)
				worker := queue.NewWorker(rabbitMQ.Ch, mailSender, cfg.SMTP.AlertTo)
				go worker.Start(queue.QueueName)
			} else {
				worker := queue.NewWorker(rabbitMQ.Ch, nil, "")
				go worker.Start(queue.QueueName)
			}
		}
	}

	// Repositories
	leadRepo := database.NewLeadRepository(db)

	// Integration clients
	crmClient := twentycrm.NewClient(twentycrm.Config{
		BaseURL:  cfg.CRM.BaseURL,
		APIToken: cfg.CRM.APIToken,
		Timeout:  cfg.CRM.Timeout,
	})

	var llmClient *openai.Client
	if cfg.LLM.APIKey != "" {
		llmClient = openai.NewClient(openai.Config{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Timeout:     cfg.LLM.Timeout,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Stream:      cfg.LLM.Stream,
		})
	}

	agents, err := config.LoadSalesAgents(cfg.SalesAgentsFile)
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}

	// UseCases
	syncUC := usecase.NewSyncLeadsUseCase(leadRepo, crmClient, producer, cfg.SyncConcurrency)
	captureUC := usecase.NewCaptureLeadUseCase(leadRepo)

	// Typed-nil guard: only hand the interface a client that exists.
	var chat usecase.ChatService
	if llmClient != nil {
		chat = llmClient
	}
	matchUC := usecase.NewMatchAgentUseCase(leadRepo, chat, agents)

	// Handlers
	leadHandler := handlers.NewLeadHandler(leadRepo, captureUC)
	syncHandler := handlers.NewSyncHandler(syncUC)
	matchHandler := handlers.NewMatchHandler(matchUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitConn, cfg.CRM.BaseURL != "", llmClient != nil)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/leads", leadHandler.HandleList)
		r.Post("/leads", leadHandler.HandleCapture)
		r.Get("/leads/{leadId}", leadHandler.HandleGet)
		r.Post("/leads/sync", syncHandler.HandleSyncAll)
		r.Post("/leads/{leadId}/sync", syncHandler.HandleSyncOne)
		r.Post("/leads/{leadId}/match-agent", matchHandler.HandleMatch)
	})

	addr := ":" + cfg.Server.Port
	log.Printf("🔥 Carnance CRM sync backend listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}
