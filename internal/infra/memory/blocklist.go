package memory

import (
	"sort"
	"sync"

	"telegram-relay-bot/internal/domain/ports/repository"
	"telegram-relay-bot/internal/infra/metrics"
)

var _ repository.BlocklistRepository = (*Blocklist)(nil)

// Blocklist is a process-lifetime set of blocked sender ids.
type Blocklist struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

func NewBlocklist() *Blocklist {
	return &Blocklist{ids: make(map[int64]struct{})}
}

func (b *Blocklist) Block(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.ids[id]; ok {
		return false
	}
	b.ids[id] = struct{}{}
	metrics.SetBlocklistSize(len(b.ids))
	return true
}

func (b *Blocklist) Unblock(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.ids[id]; !ok {
		return false
	}
	delete(b.ids, id)
	metrics.SetBlocklistSize(len(b.ids))
	return true
}

func (b *Blocklist) Contains(id int64) bool {
	b.mu.RLock()
	_, ok := b.ids[id]
	b.mu.RUnlock()
	return ok
}

func (b *Blocklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.ids)
}

// List returns the blocked ids in ascending order.
func (b *Blocklist) List() []int64 {
	b.mu.RLock()
	out := make([]int64, 0, len(b.ids))
	for id := range b.ids {
		out = append(out, id)
	}
	b.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
