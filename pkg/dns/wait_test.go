package dns

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zdunecki/lsdomain/pkg/lightsail"
	"github.com/zdunecki/lsdomain/pkg/lightsail/lightsailtest"
)

func TestWaitForRecordImmediate(t *testing.T) {
	fake := lightsailtest.NewFake()
	fake.Zones["example.com"] = []lightsail.DomainEntry{{Name: "app.example.com"}}

	w := NewWaiter(fake, 3, 0, nullEntry())
	if err := w.WaitForRecord(context.Background(), "app", "example.com"); err != nil {
		t.Fatalf("WaitForRecord() error = %v", err)
	}
	if fake.EntryNamesCalls != 1 {
		t.Errorf("polls = %d, want 1", fake.EntryNamesCalls)
	}
}

func TestWaitForRecordEventually(t *testing.T) {
	fake := lightsailtest.NewFake()
	fake.Zones["example.com"] = []lightsail.DomainEntry{{Name: "app.example.com"}}
	fake.HiddenEntries = 2

	w := NewWaiter(fake, 5, 0, nullEntry())
	if err := w.WaitForRecord(context.Background(), "app", "example.com"); err != nil {
		t.Fatalf("WaitForRecord() error = %v", err)
	}
	if fake.EntryNamesCalls != 3 {
		t.Errorf("polls = %d, want 3", fake.EntryNamesCalls)
	}
}

func TestWaitForRecordTimeout(t *testing.T) {
	fake := lightsailtest.NewFake()

	w := NewWaiter(fake, 2, 0, nullEntry())
	err := w.WaitForRecord(context.Background(), "app", "example.com")

	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if timeout.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", timeout.Attempts)
	}
	if !strings.Contains(err.Error(), "did not appear") {
		t.Errorf("unexpected message: %s", err)
	}
	if fake.EntryNamesCalls != 2 {
		t.Errorf("polls = %d, want 2", fake.EntryNamesCalls)
	}
}

func TestWaitForRecordTimeoutElapsed(t *testing.T) {
	fake := lightsailtest.NewFake()
	delay := 20 * time.Millisecond

	err := NewWaiter(fake, 3, delay, nullEntry()).WaitForRecord(context.Background(), "app", "example.com")
	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	// No sleep follows the last poll.
	if timeout.Elapsed < 2*delay {
		t.Errorf("elapsed = %s, want at least %s", timeout.Elapsed, 2*delay)
	}
	if fake.EntryNamesCalls != 3 {
		t.Errorf("polls = %d, want 3", fake.EntryNamesCalls)
	}
}

func TestWaitForRecordTimeoutNoDelay(t *testing.T) {
	err := NewWaiter(lightsailtest.NewFake(), 4, 0, nullEntry()).WaitForRecord(context.Background(), "app", "example.com")
	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if timeout.Elapsed >= time.Second {
		t.Errorf("elapsed = %s, want well under a second", timeout.Elapsed)
	}
	if !strings.HasSuffix(err.Error(), "(0s)") {
		t.Errorf("unexpected message: %s", err)
	}
}

func TestTimeoutErrorMessage(t *testing.T) {
	err := &TimeoutError{Record: "app.example.com", Zone: "example.com", Attempts: 10, Elapsed: 50 * time.Second}
	want := "record app.example.com did not appear in zone example.com after 10 attempts (50s)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWaitForRecordListError(t *testing.T) {
	boom := errors.New("network down")
	fake := lightsailtest.NewFake()
	fake.EntryNamesErr = boom

	err := NewWaiter(fake, 3, 0, nullEntry()).WaitForRecord(context.Background(), "app", "example.com")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped list error, got %v", err)
	}
	if fake.EntryNamesCalls != 1 {
		t.Errorf("polls = %d, want 1", fake.EntryNamesCalls)
	}
}

func TestWaitForRecordCancelled(t *testing.T) {
	fake := lightsailtest.NewFake()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWaiter(fake, 5, time.Hour, nullEntry()).WaitForRecord(ctx, "app", "example.com")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewWaiterDefaults(t *testing.T) {
	w := NewWaiter(lightsailtest.NewFake(), 0, -1, nullEntry())
	if w.maxAttempts != DefaultMaxAttempts || w.delay != DefaultPollInterval {
		t.Errorf("defaults = (%d, %s)", w.maxAttempts, w.delay)
	}
}
