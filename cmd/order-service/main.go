package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/shadows-market/storefront/internal/authclient"
	"github.com/shadows-market/storefront/internal/order/checkout"
	"github.com/shadows-market/storefront/internal/order/router"
	"github.com/shadows-market/storefront/internal/order/status"
	"github.com/shadows-market/storefront/internal/order/store"
	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/metrics"
	"github.com/shadows-market/storefront/pkg/mongo"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	var st store.Store
	if global.GetEnvOrDefault("STORE", "") == "memory" || global.GetEnvOrDefault("MONGODB_URI", "") == "" {
		log.Println("Using in-memory store")
		st = store.NewMemoryStore()
	} else {
		mongo.InitMongoDB()
		st = store.NewMongoStore(mongo.GetDatabase())
	}

	authURL := global.GetEnvOrDefault("AUTH_SERVICE_URL", "http://localhost:8081")

	r := router.New(router.Deps{
		Store:        st,
		Engine:       checkout.NewEngine(st),
		Machine:      status.NewMachine(st),
		Verifier:     authclient.NewHTTPVerifier(authURL),
		ServiceToken: global.GetEnvOrDefault("SERVICE_TOKEN", ""),
		Metrics:      metrics.NewServerMetrics("order"),
	})

	port := global.GetEnvOrDefault("PORT", "8082")
	log.Printf("Order service is running on port %s", port)

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
