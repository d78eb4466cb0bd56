package checkout

import (
	"sort"
	"sync"
)

// productLocks hands out one mutex per product id so checkouts touching
// disjoint product sets run in parallel while overlapping ones serialize.
// Locks are always taken in sorted id order, which rules out deadlock between
// two checkouts holding overlapping sets.
type productLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[string]*sync.Mutex)}
}

func (pl *productLocks) get(id string) *sync.Mutex {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	m, exists := pl.locks[id]
	if !exists {
		m = &sync.Mutex{}
		pl.locks[id] = m
	}
	return m
}

// lockAll acquires the locks for every id and returns the release function.
func (pl *productLocks) lockAll(ids []string) func() {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		m := pl.get(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
