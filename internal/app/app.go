package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/idp-labs/shop-svc/internal/auth"
	"github.com/idp-labs/shop-svc/internal/dal/postgres"
	"github.com/idp-labs/shop-svc/internal/dal/rabbitmq"
	"github.com/idp-labs/shop-svc/internal/dal/repositories/audit"
	outboxrepo "github.com/idp-labs/shop-svc/internal/dal/repositories/outbox/postgres"
	"github.com/idp-labs/shop-svc/internal/otel"
	"github.com/idp-labs/shop-svc/internal/service/services/basketsvc"
	"github.com/idp-labs/shop-svc/internal/service/services/ordersvc"
	"github.com/idp-labs/shop-svc/internal/service/services/productsvc"
	"github.com/idp-labs/shop-svc/internal/service/services/usersvc"
	httptransport "github.com/idp-labs/shop-svc/internal/transport/http"
	"github.com/idp-labs/shop-svc/internal/worker/outbox"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	outboxWorker   *outbox.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()

	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	outboxRepo := outboxrepo.NewOutboxRepository(postgresClient)
	auditRepo := audit.NewAuditRabbitMQRepository(rabbitClient, outboxRepo)

	authClient := auth.MustNewClient()

	userSvc := usersvc.MustNewUserService(
		usersvc.WithPostgresClient(postgresClient),
	)
	productSvc := productsvc.MustNewProductService(
		productsvc.WithPostgresClient(postgresClient),
	)
	basketSvc := basketsvc.MustNewBasketService(
		basketsvc.WithPostgresClient(postgresClient),
	)
	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithAuditRepository(auditRepo),
	)

	transport := httptransport.NewHTTPTransport(authClient, userSvc, productSvc, basketSvc, orderSvc)
	transport.RegisterRoutes()

	outboxWorker := outbox.NewWorker(outboxRepo, rabbitClient)

	return &App{
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go a.outboxWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	cancelWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Trace provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
