package service

import "sync"

// keyMutex serializes work per key. Mutexes are kept for the process
// lifetime; the key space (mod ids under active edit) is small.
type keyMutex struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newKeyMutex() *keyMutex {
	return &keyMutex{locks: make(map[uint]*sync.Mutex)}
}

func (k *keyMutex) Lock(key uint) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
