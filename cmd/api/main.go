package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/storefront-go/shop-backend/internal/catalog"
	"github.com/storefront-go/shop-backend/internal/config"
	"github.com/storefront-go/shop-backend/internal/httpx"
	kafkax "github.com/storefront-go/shop-backend/internal/kafka"
	"github.com/storefront-go/shop-backend/internal/metrics"
	"github.com/storefront-go/shop-backend/internal/orders"
	"github.com/storefront-go/shop-backend/internal/payment"
	"github.com/storefront-go/shop-backend/internal/postgres"
	"github.com/storefront-go/shop-backend/internal/redisx"
	"github.com/storefront-go/shop-backend/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	if err := postgres.Migrate(cfg.PostgresDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
	prod.Start(ctx)

	// Stores, gateway client, coordinator
	catalogStore := &catalog.Store{DB: db}
	orderStore := &orders.Store{DB: db}
	coordinator := &orders.Coordinator{
		Catalog: catalogStore,
		Gateway: payment.NewClient(cfg.PaymentURL, cfg.PaymentTimeout),
		Store:   orderStore,
	}

	// Handlers
	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Placer:   coordinator,
		Orders:   orderStore,
		Producer: prod,
		Redis:    rdb,
		Metrics:  metrics.NewOrderMetrics(prometheus.DefaultRegisterer, "api"),
		Service:  cfg.ServiceName,
	}
	oh.Register(router)
	(&httpx.ProductsHandler{Catalog: catalogStore}).Register(router)
	(&httpx.UsersHandler{Users: &users.Store{DB: db}}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()
	prod.WaitClosed()
}
