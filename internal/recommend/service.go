package recommend

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shadows-market/storefront/pkg/models"
)

const defaultLimit = 5

// Service computes personalized recommendations. Results are cached in Redis
// keyed by the buyer's purchase-history signature.
type Service struct {
	catalog CatalogClient
	// cacheEnabled gates the Redis round-trips so local runs without Redis
	// still serve recommendations.
	cacheEnabled bool
}

func NewService(catalog CatalogClient, cacheEnabled bool) *Service {
	return &Service{catalog: catalog, cacheEnabled: cacheEnabled}
}

func (s *Service) Recommend(ctx context.Context, username, bearerToken string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	orders, err := s.catalog.ListMyOrders(ctx, bearerToken)
	if err != nil {
		return nil, err
	}

	purchased := make(map[string]bool)
	categories := make(map[string]bool)
	var historyIDs []string
	for _, o := range orders {
		if o.Status == models.OrderCancelled {
			continue
		}
		for _, l := range o.Lines {
			if !purchased[l.ProductID] {
				purchased[l.ProductID] = true
				historyIDs = append(historyIDs, l.ProductID)
			}
		}
	}

	signature := HistorySignature(historyIDs)
	if s.cacheEnabled {
		if cached, err := GetCachedRecommendations(ctx, username, signature); err == nil {
			return cached, nil
		}
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(products))
	var candidates []models.Product
	for _, p := range products {
		byID[p.ID] = p
		if p.Category != "" && purchased[p.ID] {
			categories[p.Category] = true
		}
		if p.Status == models.ProductAvailable && !purchased[p.ID] {
			candidates = append(candidates, p)
		}
	}

	recommended := s.rankWithAI(ctx, historyIDs, byID, candidates, limit)
	if len(recommended) == 0 {
		recommended = rankByCategory(candidates, categories, limit)
	}

	if s.cacheEnabled {
		if err := CacheRecommendations(ctx, username, signature, recommended); err != nil {
			log.Printf("failed to cache recommendations for %s: %v", username, err)
		}
	}
	return recommended, nil
}

// rankWithAI asks the model to order the candidates; any hallucinated or
// already-purchased id is dropped. Returns nil when the AI pass is disabled
// or fails, which sends the caller to the heuristic.
func (s *Service) rankWithAI(ctx context.Context, historyIDs []string, byID map[string]models.Product, candidates []models.Product, limit int) []models.Product {
	if !IsEnabled() || len(candidates) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("Purchase history product IDs: ")
	if len(historyIDs) == 0 {
		sb.WriteString("(none)")
	} else {
		sb.WriteString(strings.Join(historyIDs, ", "))
	}
	sb.WriteString("\n\nCatalog:\n")
	for _, p := range candidates {
		fmt.Fprintf(&sb, "- id=%s name=%q category=%q price=%.2f\n", p.ID, p.Name, p.Category, p.Price)
	}
	fmt.Fprintf(&sb, "\nReturn at most %d product IDs.", limit)

	answer, err := generateCompletion(ctx, recommendationSystemPrompt, sb.String())
	if err != nil {
		log.Printf("AI recommendation failed, falling back: %v", err)
		return nil
	}

	allowed := make(map[string]bool, len(candidates))
	for _, p := range candidates {
		allowed[p.ID] = true
	}

	var out []models.Product
	for _, raw := range strings.Split(answer, ",") {
		id := strings.TrimSpace(raw)
		if !allowed[id] {
			continue
		}
		out = append(out, byID[id])
		allowed[id] = false
		if len(out) >= limit {
			break
		}
	}
	return out
}

// rankByCategory is the deterministic fallback: products from categories the
// buyer already bought from come first, everything else after.
func rankByCategory(candidates []models.Product, categories map[string]bool, limit int) []models.Product {
	out := make([]models.Product, 0, limit)
	for _, p := range candidates {
		if categories[p.Category] {
			out = append(out, p)
			if len(out) >= limit {
				return out
			}
		}
	}
	for _, p := range candidates {
		if !categories[p.Category] {
			out = append(out, p)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}
