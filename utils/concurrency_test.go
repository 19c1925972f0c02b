package utils

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSeenSetNoDuplicates(t *testing.T) {
	s := NewSeenSet()

	added := s.Add("cafef.vn|robusta_vietnam|58000.00")
	if !added {
		t.Error("first Add should return true")
	}

	added = s.Add("cafef.vn|robusta_vietnam|58000.00")
	if added {
		t.Error("second Add of same key should return false")
	}

	if !s.Contains("cafef.vn|robusta_vietnam|58000.00") {
		t.Error("Contains should report the recorded key")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestSeenSetConcurrency(t *testing.T) {
	s := NewSeenSet()
	var added int64

	pool := NewWorkerPool(10, 0)
	for i := 0; i < 100; i++ {
		key := "vietstock.vn|robusta_london|4280.00"
		pool.Submit(func() {
			if s.Add(key) {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestWorkerPoolRateLimit(t *testing.T) {
	rateLimitMs := 100
	pool := NewWorkerPool(1, rateLimitMs)

	var timestamps []time.Time
	mu := make(chan struct{}, 1)
	mu <- struct{}{}

	for i := 0; i < 3; i++ {
		pool.Submit(func() {
			<-mu
			timestamps = append(timestamps, time.Now())
			mu <- struct{}{}
		})
	}
	pool.Wait()

	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		min := time.Duration(rateLimitMs) * time.Millisecond
		if gap < min {
			t.Errorf("gap between job %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}
