// file: internals/helpers/keyed_mutex.go
package helper

import "sync"

// KeyedMutex menserialisasi operasi per key (di sini: per student).
// Transaction isolation saja tidak cukup mencegah lost-update saat dua
// request untuk student yang sama masuk bersamaan, jadi semua operasi
// ledger yang read-then-write wajib memegang lock ini dulu.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock memblok sampai key bebas, lalu mengembalikan fungsi unlock.
// Entry map dibersihkan saat tidak ada lagi yang menunggu.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
