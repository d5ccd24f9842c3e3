package roadmap

import (
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"
)

var ErrAdaptationInProgress = errors.New("an adaptation is already running for this roadmap")

// Guard allows one in-flight adaptation per key.
type Guard struct {
	mu    sync.Mutex
	slots map[string]*semaphore.Weighted
}

func NewGuard() *Guard {
	return &Guard{slots: make(map[string]*semaphore.Weighted)}
}

// TryAcquire never blocks. The returned release func must be called once.
func (g *Guard) TryAcquire(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, ok := g.slots[key]
	if !ok {
		slot = semaphore.NewWeighted(1)
		g.slots[key] = slot
	}
	if !slot.TryAcquire(1) {
		return nil, ErrAdaptationInProgress
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			slot.Release(1)
			delete(g.slots, key)
		})
	}, nil
}

func GuardKey(userID, careerID string) string {
	return userID + "/" + careerID
}
