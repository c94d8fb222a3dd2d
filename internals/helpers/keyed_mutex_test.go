// file: internals/helpers/keyed_mutex_test.go
package helper

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	const workers = 50
	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := km.Lock("student-1")
			defer unlock()
			// read-then-write tanpa atomics: hanya aman kalau lock bekerja
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	unlockA := km.Lock("student-a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("student-b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("key lain ikut terblok")
	}
}

func TestKeyedMutexCleansUpEntries(t *testing.T) {
	km := NewKeyedMutex()

	unlock := km.Lock("student-1")
	unlock()
	unlock2 := km.Lock("student-2")
	unlock2()

	km.mu.Lock()
	defer km.mu.Unlock()
	require.Empty(t, km.locks, "entry map harus dibersihkan setelah unlock terakhir")
}
