package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/xplaxcerx/CVB1/internal/config"
	"github.com/xplaxcerx/CVB1/internal/delivery"
	"github.com/xplaxcerx/CVB1/internal/fulfillment"
	"github.com/xplaxcerx/CVB1/internal/kafkax"
	"github.com/xplaxcerx/CVB1/internal/redisx"
	"github.com/xplaxcerx/CVB1/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prod := kafkax.NewProducer(cfg.KafkaBrokers, store.TopicShippingQuoted, 1024)
	prod.Start(ctx)

	svc := &fulfillment.Service{
		Delivery:    delivery.New(cfg),
		Redis:       rdb,
		Producer:    prod,
		ServiceName: cfg.ServiceName + "-fulfillment",
		DefaultCity: getenv("FULFILLMENT_CITY", "Moscow"),
	}

	group := getenv("FULFILLMENT_GROUP", "fulfillment-svc")
	workers := atoiOr(os.Getenv("FULFILLMENT_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, store.TopicOrderCreated, workers)

	go func() {
		log.Printf("fulfillment consumer started: group=%s topic=%s workers=%d",
			group, store.TopicOrderCreated, workers)
		if err := cons.Start(ctx, svc.HandleOrderCreated); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
	prod.Close()
	prod.WaitClosed()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 {
		return def
	}
	return i
}
