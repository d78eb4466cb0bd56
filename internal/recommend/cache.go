package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shadows-market/storefront/pkg/models"
	"github.com/shadows-market/storefront/pkg/redis"
)

const cacheTTL = time.Hour

// HistorySignature hashes the set of purchased product ids, order-independent,
// so the cache invalidates itself the moment the buyer's history changes.
func HistorySignature(productIDs []string) string {
	sorted := make([]string, len(productIDs))
	copy(sorted, productIDs)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\x00")))
	return hex.EncodeToString(sum[:])
}

func recommendationKey(username, signature string) string {
	return fmt.Sprintf("recommendations:%s:%s", username, signature)
}

func GetCachedRecommendations(ctx context.Context, username, signature string) ([]models.Product, error) {
	client := redis.RedisClient()
	defer client.Close()

	payload, err := client.Get(ctx, recommendationKey(username, signature)).Result()
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(payload), &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached recommendations: %w", err)
	}
	return products, nil
}

func CacheRecommendations(ctx context.Context, username, signature string, products []models.Product) error {
	client := redis.RedisClient()
	defer client.Close()

	payload, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}
	return client.Set(ctx, recommendationKey(username, signature), payload, cacheTTL).Err()
}
