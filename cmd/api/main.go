package main

import (
	availabilityhandler "slotly/internal/availability/handler"
	availabilityrepo "slotly/internal/availability/repository"
	availabilityservice "slotly/internal/availability/service"
	availabilityvalidator "slotly/internal/availability/validator"
	bookinghandler "slotly/internal/bookings/handler"
	bookingrepo "slotly/internal/bookings/repository"
	bookingservice "slotly/internal/bookings/service"
	bookingvalidator "slotly/internal/bookings/validator"
	"slotly/internal/health"
	webhookhandler "slotly/internal/webhooks/handler"
	webhookservice "slotly/internal/webhooks/service"
	"slotly/pkg/app"
	"slotly/pkg/config"
	"slotly/pkg/contracts"
	"slotly/pkg/kafka"
	kafka_config "slotly/pkg/kafka/config"
	kafka_middleware "slotly/pkg/kafka/middleware"
)

const ServiceName = "slotly-api"

func main() {
	cfg := config.Load(ServiceName, config.DefaultAPIPort)
	cfg.SetMongo()

	cfg.Log.Info("Starting Slotly API")
	serverApp := app.NewApplication(cfg)

	publisher, metrics := initEvents(cfg, serverApp)
	handlers := initHandlers(cfg, serverApp, publisher)

	serverApp.SetApp(health.NewHealthHandler(cfg.Client.Mongo, metrics, cfg.Log), handlers...)
	serverApp.Run()
}

// initEvents returns a nil publisher when no brokers are configured; webhooks
// are then accepted and logged only.
func initEvents(cfg *config.Config, serverApp *app.Application) (webhookservice.Publisher, *kafka_middleware.Metrics) {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled() {
		cfg.Log.Info("Kafka disabled, webhook events will not be published")
		return nil, nil
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.WebhookTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	metrics := &kafka_middleware.Metrics{}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(metrics.Middleware())
	serverApp.OnShutdown("kafka-producer", producer.Close)

	return producer, metrics
}

func initHandlers(cfg *config.Config, serverApp *app.Application, publisher webhookservice.Publisher) []contracts.Handler {
	bookingService := bookingservice.NewBookingService(
		bookingrepo.NewMongoBookingRepository(cfg),
		bookingrepo.NewBookingLockRepository(cfg),
		bookingvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)

	availabilityService := availabilityservice.NewAvailabilityService(
		availabilityrepo.NewMongoAvailabilityRepository(cfg),
		availabilityvalidator.NewAvailabilityValidator(),
		cfg,
	)

	webhookService := webhookservice.NewWebhookService(publisher, serverApp.IdempotencyStore(), cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		webhookhandler.NewWebhookHandler(webhookService, cfg.Log),
	}
}
