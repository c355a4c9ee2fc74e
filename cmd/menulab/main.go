package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	config "github.com/davicafu/menulab/internal/config"
	productApp "github.com/davicafu/menulab/internal/product/application"
	productDomain "github.com/davicafu/menulab/internal/product/domain"
	productConsumer "github.com/davicafu/menulab/internal/product/infra/inbound/events"
	productRepo "github.com/davicafu/menulab/internal/product/infra/outbound/db/memory"
	productEvents "github.com/davicafu/menulab/internal/product/infra/outbound/events"
	"github.com/davicafu/menulab/internal/shared/infra/queue"
	"github.com/davicafu/menulab/internal/shared/infra/queue/kafkaq"
	"github.com/davicafu/menulab/internal/shared/infra/queue/memoryq"
	"github.com/davicafu/menulab/internal/shared/infra/queue/redisq"
	"github.com/davicafu/menulab/pkg/logger"
)

// ---------------- Main ----------------
func main() {
	log := logger.New()
	defer log.Sync() // flush buffers al salir

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	// ---------------- Cola ----------------
	var queueClient queue.Client

	switch cfg.QueueBackend {
	case "kafka":
		if cfg.EventQueueName == "" {
			log.Warn("⚠️ Kafka seleccionado sin EVENT_QUEUE_NAME, cola en memoria")
			queueClient = memoryq.NewQueue(cfg.VisibilityTimeout)
			break
		}
		log.Info("🚀 Usando Kafka como cola de eventos", zap.Strings("brokers", cfg.KafkaBrokers))

		writer := kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.EventQueueName,
		})
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.EventQueueName,
			GroupID:  cfg.KafkaGroupID,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})
		defer writer.Close()
		defer reader.Close()

		queueClient = kafkaq.NewQueue(writer, reader, log)

	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("⚠️ Redis no disponible, cola en memoria:", zap.Error(err))
			queueClient = memoryq.NewQueue(cfg.VisibilityTimeout)
		} else {
			log.Info("✅ Redis conectado, cola de eventos habilitada")
			queueClient = redisq.NewQueue(rdb, cfg.VisibilityTimeout, log)
		}

	default:
		log.Info("⚡️ Usando cola de eventos en memoria")
		queueClient = memoryq.NewQueue(cfg.VisibilityTimeout)
	}

	// -------------- Publisher --------------
	var publisher productDomain.EventPublisher
	if cfg.EventQueueName == "" {
		log.Warn("⚠️ Sin destino de cola configurado: publisher no-op")
		publisher = productEvents.NewNoopPublisher(log)
	} else {
		publisher = productEvents.NewQueuePublisher(queueClient, cfg.EventQueueName, log)
	}

	// --------------- Servicio --------------
	// Las mutaciones que llegan por la cola no se re-publican: el servicio
	// que alimenta al consumidor emite sus eventos hacia el publisher no-op.
	repo := productRepo.NewProductRepo()
	service := productApp.NewProductService(repo, productEvents.NewNoopPublisher(log), log)

	// -------------- Consumer ---------------
	consumer := productConsumer.NewConsumer(queueClient, service, productConsumer.Config{
		Destination: cfg.EventQueueName,
		Enabled:     cfg.PollingEnabled && cfg.EventQueueName != "",
		Interval:    cfg.PollingInterval,
		MaxMessages: cfg.MaxMessages,
		WaitTime:    cfg.WaitTime,
	}, log)
	go consumer.Start(ctx)

	// En modo memoria simulamos una publicación para ver el ciclo completo.
	if cfg.QueueBackend == "memory" && cfg.EventQueueName != "" {
		sample := productDomain.Product{
			Name:        "Tortilla de patatas",
			Category:    "Principales",
			Description: "Con cebolla",
			Price:       decimal.NewFromFloat(9.50),
			CookingTime: 20,
		}
		if err := publisher.Publish(ctx, productDomain.NewProductCreated(sample)); err != nil {
			log.Error("Fallo al publicar el evento simulado", zap.Error(err))
		} else {
			log.Info("✅ Evento 'ProductCreated' simulado y publicado correctamente")
		}
	}

	// ---------------- HTTP ----------------
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/stats/events", func(c *gin.Context) {
		c.JSON(200, gin.H{"unknown_events_discarded": consumer.UnknownEvents()})
	})

	log.Info("🚀 Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
	)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
