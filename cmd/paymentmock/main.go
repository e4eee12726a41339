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

	"github.com/storefront-go/shop-backend/internal/config"
	"github.com/storefront-go/shop-backend/internal/httpx"
	"github.com/storefront-go/shop-backend/internal/payment"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gateway := payment.NewMockGateway(cfg.PaymentFunds, cfg.PaymentLive)

	router := httpx.NewRouter()
	router.Post("/mockpayment/paymentRequest", payment.GatewayHandler(gateway))

	srv := &http.Server{Addr: cfg.PaymentAddr, Handler: router}

	go func() {
		log.Printf("mock gateway listening at %s (funds=%s live=%v)", cfg.PaymentAddr, cfg.PaymentFunds, cfg.PaymentLive)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
