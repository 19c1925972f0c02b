package utils

import (
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLogger(LevelError)}

	calls := 0
	err := r.Do("op", func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestRetryRecovers(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLogger(LevelError)}

	calls := 0
	err := r.Do("op", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("unexpected error after recovery: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NewLogger(LevelError)}

	sentinel := errors.New("permanent")
	calls := 0
	err := r.Do("op", func() error {
		calls++
		return sentinel
	})

	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("final error should wrap the last failure, got %v", err)
	}
}
