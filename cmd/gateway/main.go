package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shadows-market/storefront/internal/gateway"
	"github.com/shadows-market/storefront/pkg/global"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	handler, err := gateway.New(gateway.Upstreams{
		Auth:      global.GetEnvOrDefault("AUTH_SERVICE_URL", "http://localhost:8081"),
		Order:     global.GetEnvOrDefault("ORDER_SERVICE_URL", "http://localhost:8082"),
		Payment:   global.GetEnvOrDefault("PAYMENT_SERVICE_URL", "http://localhost:8083"),
		Recommend: global.GetEnvOrDefault("RECOMMENDATION_SERVICE_URL", "http://localhost:8084"),
	})
	if err != nil {
		log.Fatalf("Failed to build gateway: %v", err)
	}

	port := global.GetEnvOrDefault("PORT", "8080")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Gateway is running on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down gateway...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Gateway forced to shutdown: %v", err)
	}
}
