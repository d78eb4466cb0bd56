package router

import "sync"

// Header carries the optional client-generated checkout idempotency key.
const Header = "Idempotency-Key"

// idempotencyIndex remembers which order a checkout key produced so a retried
// request gets the original order back instead of a duplicate.
type idempotencyIndex struct {
	mu     sync.Mutex
	orders map[string]string // buyer + "\x00" + key -> order id
}

func newIdempotencyIndex() *idempotencyIndex {
	return &idempotencyIndex{orders: make(map[string]string)}
}

func (i *idempotencyIndex) lookup(buyer, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	id, exists := i.orders[buyer+"\x00"+key]
	return id, exists
}

func (i *idempotencyIndex) remember(buyer, key, orderID string) {
	if key == "" {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.orders[buyer+"\x00"+key] = orderID
}
