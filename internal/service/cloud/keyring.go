package cloud

import (
	"sync"
)

// KeyRing rotates between multiple provider API keys round-robin so a single
// free-tier key does not absorb all traffic.
type KeyRing struct {
	keys   []string
	index  int
	locker sync.Mutex
}

func NewKeyRing(keys []string) *KeyRing {
	filtered := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			filtered = append(filtered, k)
		}
	}
	return &KeyRing{keys: filtered}
}

// Next returns the next key, or "" when no key is configured.
func (r *KeyRing) Next() string {
	r.locker.Lock()
	defer r.locker.Unlock()
	if len(r.keys) == 0 {
		return ""
	}
	key := r.keys[r.index]
	r.index = (r.index + 1) % len(r.keys)
	return key
}

// Size number of usable keys.
func (r *KeyRing) Size() int {
	r.locker.Lock()
	defer r.locker.Unlock()
	return len(r.keys)
}
