package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/velmart/settlement-service/internal/client"
	"github.com/velmart/settlement-service/internal/config"
	httpapi "github.com/velmart/settlement-service/internal/delivery/http"
	publisher "github.com/velmart/settlement-service/internal/infrastructure/kafka"
	"github.com/velmart/settlement-service/internal/infrastructure/logger"
	"github.com/velmart/settlement-service/internal/infrastructure/metrics"
	"github.com/velmart/settlement-service/internal/infrastructure/migrate"
	"github.com/velmart/settlement-service/internal/infrastructure/postgres"
	"github.com/velmart/settlement-service/internal/infrastructure/postgres/repository"
	disputeuc "github.com/velmart/settlement-service/internal/usecase/dispute"
	escrowuc "github.com/velmart/settlement-service/internal/usecase/escrow"
	orderuc "github.com/velmart/settlement-service/internal/usecase/order"
	scheduler "github.com/velmart/settlement-service/internal/usecase/scheduler"
	settlementuc "github.com/velmart/settlement-service/internal/usecase/settlement"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)
	if err := migrate.RunMigrations(db, cfg.OrderDB.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Init kafka publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.Kafka.Host, cfg.Kafka.Port)}
	kafkaPublisher := publisher.NewKafkaPublisher(brokers)
	defer kafkaPublisher.Close()

	// Init repositories
	orderRepo := repository.NewDefaultOrderRepository(db)
	escrowRepo := repository.NewDefaultEscrowRepository(db)
	disputeRepo := repository.NewDefaultDisputeRepository(db)
	storeSettingsRepo := repository.NewDefaultStoreSettingsRepository(db)

	// Init metrics and audit log
	settlementMetrics := metrics.NewSettlementMetrics()
	auditLogger := logger.NewPGSettlementEventLogger(db)

	// Init payout client
	payoutClient := client.NewHTTPPayoutClient(fmt.Sprintf("http://%s:%s", cfg.Payout.Host, cfg.Payout.Port))

	// Init usecases
	escrowLedger := escrowuc.NewDefaultEscrowLedger(
		escrowRepo,
		orderRepo,
		kafkaPublisher,
		cfg.Kafka.SettlementTopic,
		settlementMetrics,
	)
	orderUsecase := orderuc.NewDefaultOrderUsecase(
		orderRepo,
		escrowRepo,
		storeSettingsRepo,
		cfg.Settlement.ConfirmationWindow,
	)
	locks := settlementuc.NewOrderLocks()
	coordinator := settlementuc.NewDefaultSettlementCoordinator(
		orderUsecase,
		escrowLedger,
		escrowRepo,
		disputeRepo,
		payoutClient,
		locks,
		auditLogger,
		settlementMetrics,
	)
	disputeUsecase := disputeuc.NewDefaultDisputeUsecase(
		disputeRepo,
		orderRepo,
		escrowRepo,
		coordinator,
		locks,
		kafkaPublisher,
		cfg.Kafka.DisputeTopic,
		auditLogger,
		settlementMetrics,
	)

	// Init auto-release scheduler
	releaseScheduler := scheduler.NewReleaseScheduler(
		escrowRepo,
		coordinator,
		settlementMetrics,
		cfg.Settlement.SchedulerInterval,
		cfg.Settlement.SchedulerBatchSize,
	)

	router := httpapi.NewRouter(orderUsecase, escrowLedger, coordinator, disputeUsecase, storeSettingsRepo)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("settlement service listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return releaseScheduler.Run(gCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("settlement service stopped: %v", err)
	}
	slog.Info("settlement service stopped")
}
