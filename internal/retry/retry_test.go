package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// transientErr is a test error that opts into retrying
type transientErr struct{ msg string }

func (e *transientErr) Error() string   { return e.msg }
func (e *transientErr) Transient() bool { return true }

// fatalErr opts out despite implementing the interface
type fatalErr struct{ msg string }

func (e *fatalErr) Error() string   { return e.msg }
func (e *fatalErr) Transient() bool { return false }

// fastPolicy keeps tests quick
func fastPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), nil, fastPolicy(), "op", func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_RetriesTransientUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), nil, fastPolicy(), "op", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &transientErr{msg: "connection refused"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ExhaustionReturnsOriginalError(t *testing.T) {
	original := &transientErr{msg: "timeout"}
	calls := 0
	err := Do(context.Background(), nil, fastPolicy(), "op", func(ctx context.Context) error {
		calls++
		return original
	})
	if !errors.Is(err, original) {
		t.Fatalf("expected original error after exhaustion, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestDo_FatalErrorNotRetried(t *testing.T) {
	calls := 0
	err := Do(context.Background(), nil, fastPolicy(), "op", func(ctx context.Context) error {
		calls++
		return &fatalErr{msg: "mapping conflict"}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected no retries for fatal error, got %d calls", calls)
	}
}

func TestDo_WrappedTransientErrorRetried(t *testing.T) {
	calls := 0
	err := Do(context.Background(), nil, fastPolicy(), "op", func(ctx context.Context) error {
		calls++
		return fmt.Errorf("bulk write: %w", &transientErr{msg: "503"})
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Errorf("expected wrapped transient error to be retried, got %d calls", calls)
	}
}

func TestDo_ContextCancelStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, nil, Policy{MaxAttempts: 5, BaseDelay: time.Minute}, "op", func(ctx context.Context) error {
		calls++
		cancel()
		return &transientErr{msg: "timeout"}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected backoff wait to observe cancellation, got %d calls", calls)
	}
}

func TestIsTransient(t *testing.T) {
	if IsTransient(nil) {
		t.Error("nil error must not be transient")
	}
	if IsTransient(context.Canceled) {
		t.Error("context cancellation must not be transient")
	}
	if IsTransient(errors.New("mapping conflict")) {
		t.Error("plain errors must not be transient")
	}
	if !IsTransient(&transientErr{msg: "x"}) {
		t.Error("expected Transient() error to be transient")
	}
	if IsTransient(&fatalErr{msg: "x"}) {
		t.Error("Transient()==false must win over interface match")
	}
}
