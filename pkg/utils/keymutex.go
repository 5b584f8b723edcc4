package utils

import (
	"sort"
	"sync"
)

// KeyMutex serializes work per string key. The trade engine locks the
// usernames an operation touches so two resolutions on the same account
// cannot interleave their read-modify-write cycles.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyMutex() *KeyMutex {
	return &KeyMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

func (k *KeyMutex) Lock(key string) {
	k.get(key).Lock()
}

func (k *KeyMutex) Unlock(key string) {
	k.get(key).Unlock()
}

// LockKeys acquires every key in sorted order so two callers locking the
// same pair of accounts can never deadlock. Duplicate keys are locked once.
func (k *KeyMutex) LockKeys(keys ...string) []string {
	ordered := dedupSorted(keys)
	for _, key := range ordered {
		k.Lock(key)
	}
	return ordered
}

// UnlockKeys releases keys previously acquired with LockKeys.
func (k *KeyMutex) UnlockKeys(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		k.Unlock(keys[i])
	}
}

func (k *KeyMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}

func dedupSorted(keys []string) []string {
	ordered := append([]string(nil), keys...)
	sort.Strings(ordered)

	out := ordered[:0]
	for i, key := range ordered {
		if i == 0 || key != ordered[i-1] {
			out = append(out, key)
		}
	}
	return out
}
