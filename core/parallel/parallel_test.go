package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversAllItems(t *testing.T) {
	tests := []struct {
		name  string
		items int
	}{
		{name: "single item", items: 1},
		{name: "fewer items than cores", items: 3},
		{name: "many items", items: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visited := make([]int32, tt.items)
			Parallelize(tt.items, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&visited[i], 1)
				}
			})
			for i, v := range visited {
				if v != 1 {
					t.Fatalf("item %d visited %d times, want exactly once", i, v)
				}
			}
		})
	}
}

func TestParallelizeZeroItems(t *testing.T) {
	called := false
	Parallelize(0, func(start, end int) { called = true })
	if called {
		t.Error("fn invoked for zero items")
	}
}

func TestParallelizeWithThreshold(t *testing.T) {
	// At or below the threshold the work runs as a single sequential chunk.
	var calls int32
	ParallelizeWithThreshold(50, 64, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		if start != 0 || end != 50 {
			t.Errorf("sequential chunk = [%d, %d), want [0, 50)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	// Above the threshold every item is still covered exactly once.
	visited := make([]int32, 500)
	ParallelizeWithThreshold(500, 64, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&visited[i], 1)
		}
	})
	for i, v := range visited {
		if v != 1 {
			t.Fatalf("item %d visited %d times, want exactly once", i, v)
		}
	}
}
