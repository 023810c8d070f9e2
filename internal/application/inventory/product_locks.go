package inventory

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// productLocks serializes mutating ledger operations per product so that
// the plan-then-apply allocation check is atomic against concurrent
// allocations and receipts of the same product.
type productLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (p *productLocks) lockFor(productID uuid.UUID) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[productID] = l
	}
	return l
}

// LockAll acquires the locks for every product in a deterministic order so
// that two multi-product operations can never deadlock each other. The
// returned function releases them in reverse order.
func (p *productLocks) LockAll(productIDs []uuid.UUID) func() {
	ids := make([]uuid.UUID, 0, len(productIDs))
	seen := make(map[uuid.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	acquired := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		l := p.lockFor(id)
		l.Lock()
		acquired = append(acquired, l)
	}

	return func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}
}
