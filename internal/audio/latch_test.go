package audio

import (
	"sync"
	"testing"
)

func TestLatchTakeOnce(t *testing.T) {
	var l Latch[int]
	if _, ok := l.Take(); ok {
		t.Fatal("empty latch reported a value")
	}

	l.Set(1)
	l.Set(2)
	if !l.Pending() {
		t.Fatal("Pending() = false after Set")
	}
	v, ok := l.Take()
	if !ok || v != 2 {
		t.Errorf("Take() = %d, %v; want 2, true", v, ok)
	}
	if _, ok := l.Take(); ok {
		t.Error("second Take reported the same event again")
	}
}

func TestLatchConcurrent(t *testing.T) {
	var l Latch[int]
	var wg sync.WaitGroup
	const writes = 1000

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= writes; i++ {
			l.Set(i)
		}
	}()

	taken := 0
	last := 0
	for taken < writes && last != writes {
		if v, ok := l.Take(); ok {
			if v <= last {
				t.Fatalf("Take() went backwards: %d after %d", v, last)
			}
			last = v
			taken++
		}
	}
	wg.Wait()
}
