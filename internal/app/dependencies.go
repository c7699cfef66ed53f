package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/outbox"
	"github.com/vladislavdragonenkov/storefront/internal/service/store"
	"github.com/vladislavdragonenkov/storefront/internal/storage/file"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

// Dependencies содержит собранный граф зависимостей приложения.
type Dependencies struct {
	Ledger     domain.InventoryLedger
	OutboxRepo domain.OutboxRepository
	Snapshots  domain.SnapshotRepository
	Checkout   *checkout.Service
	Store      *store.Service
	Worker     *outbox.Worker
	PG         *postgres.Store
	Logger     *log.Entry

	producer *kafka.Producer
}

// NewDependencies создаёт зависимости приложения. Снапшоты идут в
// PostgreSQL при заданном DatabaseURL, иначе в CSV-файлы в SnapshotDir.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	ledger := memory.NewLedger()
	outboxRepo := memory.NewOutboxRepository()

	var (
		snapshots domain.SnapshotRepository
		pg        *postgres.Store
	)
	if cfg.DatabaseURL != "" {
		var err error
		pg, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open snapshot database: %w", err)
		}
		if err := pg.MigrateUp(ctx, 0); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("migrate snapshot schema: %w", err)
		}
		snapshots = postgres.NewSnapshotRepository(pg)
		logger.Info("snapshots stored in postgres")
	} else {
		snapshots = file.NewSnapshotStore(cfg.SnapshotDir)
		logger.WithField("dir", cfg.SnapshotDir).Info("snapshots stored on disk")
	}

	co := checkout.NewService(ledger, outboxRepo, logger.WithField("component", "checkout"))
	storeSvc := store.NewService(ledger, co, snapshots, logger.WithField("component", "store"))

	return &Dependencies{
		Ledger:     ledger,
		OutboxRepo: outboxRepo,
		Snapshots:  snapshots,
		Checkout:   co,
		Store:      storeSvc,
		PG:         pg,
		Logger:     logger,
	}, nil
}

// attachKafka подключает публикацию событий: основной топик и DLQ,
// воркер начинает дренировать outbox.
func (d *Dependencies) attachKafka(producer *kafka.Producer) {
	d.producer = producer
	publisher := kafka.NewOutboxPublisher(producer, kafka.TopicOrderEvents)
	dlqPublisher := kafka.NewOutboxPublisher(producer, kafka.TopicDeadLetterQueue)

	d.Worker = outbox.NewWorker(
		d.OutboxRepo,
		publisher,
		outbox.WithLogger(d.Logger.WithField("component", "outbox-worker")),
		outbox.WithDLQPublisher(dlqPublisher),
	)
}

// Close освобождает внешние ресурсы приложения.
func (d *Dependencies) Close(logger *log.Entry) {
	closeKafka(d.producer, logger)
	if d.PG != nil {
		if err := d.PG.Close(); err != nil {
			logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
