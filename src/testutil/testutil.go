// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"
	"time"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// TestTimer measures how long a test step takes.
type TestTimer struct {
	start time.Time
	name  string
}

func NewTestTimer(name string) *TestTimer {
	return &TestTimer{start: time.Now(), name: name}
}

func (t *TestTimer) Stop() time.Duration {
	return time.Since(t.start)
}

// PerformanceAssertion fails t when duration exceeds max.
func PerformanceAssertion(t *testing.T, name string, duration, max time.Duration) {
	t.Helper()
	if duration > max {
		t.Errorf("%s took %v, expected less than %v", name, duration, max)
		return
	}
	t.Logf("%s took %v (limit %v)", name, duration, max)
}
