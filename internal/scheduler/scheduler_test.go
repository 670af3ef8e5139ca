package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
)

func TestNextRun(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before today's slot", time.Date(2026, 3, 10, 8, 30, 0, 0, loc), time.Date(2026, 3, 10, 9, 0, 0, 0, loc)},
		{"exactly at slot", time.Date(2026, 3, 10, 9, 0, 0, 0, loc), time.Date(2026, 3, 11, 9, 0, 0, 0, loc)},
		{"after slot", time.Date(2026, 3, 10, 17, 0, 0, 0, loc), time.Date(2026, 3, 11, 9, 0, 0, 0, loc)},
		{"month rollover", time.Date(2026, 3, 31, 23, 0, 0, 0, loc), time.Date(2026, 4, 1, 9, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextRun(tt.now, 9, 0); !got.Equal(tt.want) {
				t.Errorf("NextRun() = %v, want %v", got, tt.want)
			}
		})
	}
}

type stubChecker struct {
	calls int
	err   error
}

func (s *stubChecker) CheckDueOrders(ctx context.Context) (int, error) {
	s.calls++
	return 1, s.err
}

func TestRunOnce(t *testing.T) {
	for _, err := range []error{nil, errors.New("db down")} {
		c := &stubChecker{err: err}
		s := New(c, 9, 0, logger.NewNop())
		s.RunOnce(context.Background())
		if c.calls != 1 {
			t.Errorf("calls = %d, want 1", c.calls)
		}
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	s := New(&stubChecker{}, 9, 0, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
