package assoc

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"unsafe"
)

func TestGuarded_StructSize(t *testing.T) {
	size := unsafe.Sizeof(Guarded[string, int]{})
	if size%CacheLineSize != 0 {
		t.Fatalf("Guarded size %d is not a multiple of the cache line %d", size, CacheLineSize)
	}
}

func TestGuarded_BasicOperations(t *testing.T) {
	g := NewGuarded[string, int](WithNullKey(""))
	if err := g.Set("a", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, err := g.Get("a"); err != nil || v != 1 {
		t.Fatalf("get got %v %v", v, err)
	}
	if err := g.Set("", 1); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if !g.HasKey("a") || g.Size() != 1 || g.String() != "{ a: 1 }" {
		t.Fatalf("unexpected state %s", g.String())
	}
	c := g.Clone()
	g.Remove("a")
	if _, err := g.Get("a"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if !c.HasKey("a") {
		t.Fatalf("clone changed by original")
	}
}

func TestGuarded_ZeroValue(t *testing.T) {
	var g Guarded[int, int]
	if g.HasKey(1) || g.Size() != 0 || g.String() != "{}" {
		t.Fatalf("zero value not empty")
	}
	if _, err := g.Get(1); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	g.Remove(1)
	if err := g.Set(1, 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, err := g.Get(1); err != nil || v != 2 {
		t.Fatalf("get got %v %v", v, err)
	}
}

func TestGuarded_Concurrent(t *testing.T) {
	g := NewGuarded[int, int]()
	var wg sync.WaitGroup
	n := runtime.GOMAXPROCS(0)
	const perWorker = 200
	wg.Add(n * 2)
	for w := 0; w < n; w++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if err := g.Set(base*perWorker+i, i); err != nil {
					t.Errorf("set: %v", err)
					return
				}
			}
		}(w)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				g.HasKey(base*perWorker + i)
				_ = g.String()
			}
		}(w)
	}
	wg.Wait()
	if g.Size() != n*perWorker {
		t.Fatalf("expected size %d, got %d", n*perWorker, g.Size())
	}
	for k := 0; k < n*perWorker; k++ {
		if v, err := g.Get(k); err != nil || v != k%perWorker {
			t.Fatalf("k=%d got %v %v", k, v, err)
		}
	}
}

func TestGuarded_Do(t *testing.T) {
	g := NewGuarded[string, int]()
	var wg sync.WaitGroup
	const workers, increments = 8, 100
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < increments; i++ {
				err := g.Do(func(a *AssociativeArray[string, int]) error {
					v, err := a.Get("counter")
					if err != nil && !errors.Is(err, ErrKeyNotFound) {
						return err
					}
					return a.Set("counter", v+1)
				})
				if err != nil {
					t.Errorf("do: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
	if v, err := g.Get("counter"); err != nil || v != workers*increments {
		t.Fatalf("expected %d, got %v %v", workers*increments, v, err)
	}
}
