package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/shadows-market/storefront/internal/auth"
	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/metrics"
	"github.com/shadows-market/storefront/pkg/mongo"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	secret := global.GetEnvOrDefault("JWT_SECRET", "")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set in environment variables")
	}
	tokens := auth.NewTokens([]byte(secret), 24*time.Hour)

	var users auth.UserStore
	if global.GetEnvOrDefault("MONGODB_URI", "") != "" {
		mongo.InitMongoDB()
		users = auth.NewMongoUserStore(mongo.GetCollection("users"))
	} else {
		log.Println("MONGODB_URI not set, using in-memory user store")
		users = auth.NewMemoryUserStore()
	}

	service := auth.NewService(users, tokens)

	adminUser := global.GetEnvOrDefault("ADMIN_USERNAME", "admin")
	adminPass := global.GetEnvOrDefault("ADMIN_PASSWORD", "")
	if adminPass != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := service.SeedAdmin(ctx, adminUser, adminPass); err != nil {
			log.Fatalf("Failed to seed admin account: %v", err)
		}
		cancel()
	}

	r := service.Router(metrics.NewServerMetrics("auth"))

	port := global.GetEnvOrDefault("PORT", "8081")
	log.Printf("Auth service is running on port %s", port)

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
