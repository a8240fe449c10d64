package main

import (
	"courtbook/internal/availability"
	"courtbook/internal/catalog"
	"courtbook/internal/events"
	invoiceconsumer "courtbook/internal/invoices/consumer"
	invoicehandler "courtbook/internal/invoices/handler"
	invoicerepository "courtbook/internal/invoices/repository"
	invoiceservice "courtbook/internal/invoices/service"
	reservationhandler "courtbook/internal/reservations/handler"
	reservationrepository "courtbook/internal/reservations/repository"
	"courtbook/internal/reservations/scheduler"
	reservationservice "courtbook/internal/reservations/service"
	"courtbook/internal/reservations/validator"
	"courtbook/internal/storage/memory"
	"courtbook/pkg/app"
	"courtbook/pkg/config"
	"courtbook/pkg/contracts"
	"courtbook/pkg/kafka"
	kafka_config "courtbook/pkg/kafka/config"
	kafkamiddleware "courtbook/pkg/kafka/middleware"
)

const ServiceName = "reservations"

type stores struct {
	reservations reservationrepository.ReservationRepository
	invoices     invoicerepository.InvoiceRepository
	locks        reservationrepository.CourtLockRepository
	courts       catalog.Reader
}

type messaging struct {
	publisher events.Publisher
	producer  *kafka.Producer
	kafkaCfg  *kafka_config.Config
}

func main() {
	cfg := config.Load(ServiceName)
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")

	s := initStores(cfg)
	m := initMessaging(cfg)
	if m.producer != nil {
		defer func() {
			if err := m.producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
	}

	invoices := invoiceservice.NewInvoiceService(s.invoices, m.publisher, cfg)
	reservations := reservationservice.NewReservationService(
		s.reservations,
		s.locks,
		s.courts,
		invoices,
		availability.NewEngine(availability.Policy{
			MaxSlotsPerReservation: cfg.MaxSlotsPerReservation,
			AlignToSlotGrid:        cfg.AlignToSlotGrid,
		}),
		validator.NewReservationValidator(cfg.Log),
		m.publisher,
		cfg,
	)
	cfg.Log.Info("Reservation service initialized", "storage", cfg.StorageDriver, "locks", cfg.LockBackend)

	sweeper, err := scheduler.NewSweeper(reservations, cfg.CompletionSweepCron, cfg.RequestTimeout, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create completion sweeper", "error", err)
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(cfg.Client,
		reservationhandler.NewReservationHandler(reservations, cfg.Log),
		invoicehandler.NewInvoiceHandler(invoices, s.courts, cfg.Log),
	)
	serverApp.AddWorker("completion-sweeper", sweeper)

	if m.kafkaCfg != nil {
		payments := initPaymentsConsumer(cfg, m.kafkaCfg, invoices)
		defer func() {
			if err := payments.Close(); err != nil {
				cfg.Log.Error("Failed to close payments consumer", "error", err)
			}
		}()
		serverApp.AddWorker("payments-consumer", contracts.WorkerFunc(payments.Start))
	}

	serverApp.Run()
}

func initStores(cfg *config.Config) stores {
	if cfg.UsesMongo() {
		cfg.SetMongo()
	}
	if cfg.LockBackend == config.LockRedis {
		cfg.SetRedis()
	}

	var s stores
	switch cfg.StorageDriver {
	case config.StorageMemory:
		db := memory.New(cfg.TxTimeout)
		s.reservations = db.Reservations()
		s.invoices = db.Invoices()
	default:
		s.reservations = reservationrepository.NewMongoReservationRepository(cfg)
		s.invoices = invoicerepository.NewMongoInvoiceRepository(cfg)
	}

	switch cfg.LockBackend {
	case config.LockRedis:
		s.locks = reservationrepository.NewRedisCourtLockRepository(cfg.Client.Redis, cfg.LockTTL)
	case config.LockMemory:
		s.locks = memory.NewCourtLocks()
	default:
		s.locks = reservationrepository.NewMongoCourtLockRepository(cfg)
	}

	if cfg.CatalogFile != "" {
		snapshot, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			cfg.Log.Fatal("Failed to load court catalog", "path", cfg.CatalogFile, "error", err)
		}
		cfg.Log.Info("Court catalog loaded", "path", cfg.CatalogFile, "courts", snapshot.Len())
		s.courts = snapshot
	} else {
		s.courts = catalog.NewMongoReader(cfg)
	}
	return s
}

func initMessaging(cfg *config.Config) messaging {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, domain events are not published")
		return messaging{publisher: events.Nop()}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.EventsTopic, kafkaCfg.EventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafkamiddleware.MetricsProducerMiddleware())

	return messaging{
		publisher: events.NewKafkaPublisher(producer, ServiceName),
		producer:  producer,
		kafkaCfg:  kafkaCfg,
	}
}

func initPaymentsConsumer(cfg *config.Config, kafkaCfg *kafka_config.Config, invoices invoiceservice.InvoiceService) *kafka.Consumer {
	handler := invoiceconsumer.NewPaymentsConsumer(invoices, cfg.Log)
	consumer, err := kafka.NewConsumer(kafkaCfg, kafkaCfg.PaymentsTopic, kafkaCfg.PaymentsGroupID, kafkaCfg.PaymentsDLQTopic, handler.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create payments consumer", "error", err)
	}
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafkamiddleware.MetricsConsumerMiddleware())
	return consumer
}
