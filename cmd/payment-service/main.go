package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/shadows-market/storefront/internal/authclient"
	"github.com/shadows-market/storefront/internal/payment"
	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/metrics"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	var repo payment.Repo
	if dsn := global.GetEnvOrDefault("POSTGRES_DSN", ""); dsn != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		pg, err := payment.NewPostgresRepo(ctx, dsn)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pg.Close()
		repo = pg
	} else {
		log.Println("POSTGRES_DSN not set, using in-memory payment repo")
		repo = payment.NewMemoryRepo()
	}

	orderURL := global.GetEnvOrDefault("ORDER_SERVICE_URL", "http://localhost:8082")
	authURL := global.GetEnvOrDefault("AUTH_SERVICE_URL", "http://localhost:8081")
	serviceToken := global.GetEnvOrDefault("SERVICE_TOKEN", "")
	if serviceToken == "" {
		log.Fatal("SERVICE_TOKEN is not set in environment variables")
	}

	bridge := payment.NewBridge(repo, payment.NewOrderClient(orderURL, serviceToken))
	handler := payment.NewHandler(bridge, authclient.NewHTTPVerifier(authURL))

	r := handler.Router(metrics.NewServerMetrics("payment"))

	port := global.GetEnvOrDefault("PORT", "8083")
	log.Printf("Payment service is running on port %s", port)

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
