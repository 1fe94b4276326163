package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/WipeGod/supermall-catalog/config"
	"github.com/WipeGod/supermall-catalog/internal/api"
	"github.com/WipeGod/supermall-catalog/internal/broker"
	"github.com/WipeGod/supermall-catalog/internal/catalog"
	"github.com/WipeGod/supermall-catalog/internal/redisclient"
	"github.com/WipeGod/supermall-catalog/internal/session"
	"github.com/WipeGod/supermall-catalog/internal/store"
	"github.com/WipeGod/supermall-catalog/internal/util"
	"github.com/WipeGod/supermall-catalog/internal/worker"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting catalog service")

	tp, err := util.InitTracer("catalog-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// Backend is fixed here for the process lifetime: Postgres when
	// reachable, the local file store otherwise.
	gateway, err := store.Open(cfg.Database.URL, cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer gateway.Close()
	log.Println("Document store ready")

	// Redis and Kafka are optional side channels; the catalog stays
	// fully functional without them.
	var redisClient *redisclient.Client
	if rc, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("Redis unavailable, trending telemetry disabled: %v", err)
	} else {
		redisClient = rc
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCatalog)
	defer producer.Close()
	eventPublisher := broker.NewEventPublisher(producer)
	log.Println("Kafka producer initialized")

	sess := session.New(cfg.Session.DefaultActor, cfg.Session.DefaultRole)

	shopService := catalog.NewShopService(gateway, sess, eventPublisher)
	productService := catalog.NewProductService(gateway, sess, eventPublisher, redisClient)
	offerService := catalog.NewOfferService(gateway, sess, eventPublisher)
	categoryService := catalog.NewCategoryService(gateway, sess, eventPublisher)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	auditConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCatalog, cfg.Kafka.ConsumerGroup)
	auditWorker := worker.NewAuditWorker(auditConsumer, gateway)
	go func() {
		if err := auditWorker.Start(workerCtx); err != nil {
			log.Printf("Audit worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(shopService, productService, offerService, categoryService)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	auditWorker.Stop()

	log.Println("Server exited")
}
