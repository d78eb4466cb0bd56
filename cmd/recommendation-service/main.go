package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/shadows-market/storefront/internal/authclient"
	"github.com/shadows-market/storefront/internal/recommend"
	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/metrics"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	recommend.InitializeAIService()

	orderURL := global.GetEnvOrDefault("ORDER_SERVICE_URL", "http://localhost:8082")
	authURL := global.GetEnvOrDefault("AUTH_SERVICE_URL", "http://localhost:8081")
	cacheEnabled := global.GetEnvOrDefault("REDIS_ADDRESS", "") != ""
	if !cacheEnabled {
		log.Println("REDIS_ADDRESS not set, recommendation caching disabled")
	}

	service := recommend.NewService(recommend.NewHTTPCatalogClient(orderURL), cacheEnabled)
	handler := recommend.NewHandler(service, authclient.NewHTTPVerifier(authURL))

	r := handler.Router(metrics.NewServerMetrics("recommendation"))

	port := global.GetEnvOrDefault("PORT", "8084")
	log.Printf("Recommendation service is running on port %s", port)

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
