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

	"github.com/xplaxcerx/CVB1/internal/config"
	"github.com/xplaxcerx/CVB1/internal/delivery"
	"github.com/xplaxcerx/CVB1/internal/httpx"
	"github.com/xplaxcerx/CVB1/internal/invest"
	"github.com/xplaxcerx/CVB1/internal/kafkax"
	"github.com/xplaxcerx/CVB1/internal/postgres"
	"github.com/xplaxcerx/CVB1/internal/redisx"
	"github.com/xplaxcerx/CVB1/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	if err := postgres.Seed(ctx, db); err != nil {
		log.Fatalf("db seed: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for order.created
	prod := kafkax.NewProducer(cfg.KafkaBrokers, store.TopicOrderCreated, 1024)
	prod.Start(ctx)

	// Outbound integrations, selected once from config
	dlv := delivery.New(cfg)
	if cfg.CdekDemo() {
		log.Printf("delivery: demo mode (no CDEK credentials)")
	}
	inv := invest.New(cfg)
	if cfg.InvestDemo() {
		log.Printf("invest: demo mode (no INVEST_BASE_URL)")
	}

	// Handlers
	router := httpx.NewRouter(cfg.ServiceName)
	sh := &httpx.StoreHandler{
		Products: &store.ProductRepo{DB: db},
		Orders:   &store.OrderRepo{DB: db},
		Producer: prod,
		Redis:    rdb,
		Service:  cfg.ServiceName,
	}
	sh.Register(router)
	(&httpx.DeliveryHandler{Client: dlv}).Register(router)
	(&httpx.InvestHandler{Client: inv}).Register(router)

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
