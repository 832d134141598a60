package dns

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zdunecki/lsdomain/pkg/lightsail"
)

const (
	DefaultMaxAttempts  = 10
	DefaultPollInterval = 5 * time.Second
)

// TimeoutError is returned when a record never shows up in its zone.
type TimeoutError struct {
	Record   string
	Zone     string
	Attempts int
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("record %s did not appear in zone %s after %d attempts (%ds)",
		e.Record, e.Zone, e.Attempts, int(e.Elapsed.Seconds()))
}

// Waiter polls a zone at a fixed interval until a record becomes visible.
type Waiter struct {
	client      lightsail.Client
	maxAttempts int
	delay       time.Duration
	log         *logrus.Entry
}

// NewWaiter creates a Waiter. Non-positive attempts fall back to
// DefaultMaxAttempts and a negative delay to DefaultPollInterval.
func NewWaiter(client lightsail.Client, maxAttempts int, delay time.Duration, log *logrus.Entry) *Waiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if delay < 0 {
		delay = DefaultPollInterval
	}
	return &Waiter{
		client:      client,
		maxAttempts: maxAttempts,
		delay:       delay,
		log:         log.WithField("component", "wait"),
	}
}

// WaitForRecord blocks until record is listed in zone, the attempts run out
// or ctx is done.
func (w *Waiter) WaitForRecord(ctx context.Context, record, zone string) error {
	fullName := FullRecordName(record, zone)
	log := w.log.WithFields(logrus.Fields{"zone": zone, "record": fullName})
	start := time.Now()

	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		names, err := w.client.DomainEntryNames(ctx, zone)
		if err != nil {
			return fmt.Errorf("failed to list records in %s: %w", zone, err)
		}
		if containsName(names, fullName) {
			log.WithField("attempt", attempt).Info("record is visible")
			return nil
		}

		log.WithField("attempt", attempt).Debug("record not visible yet")
		if attempt == w.maxAttempts {
			break
		}

		timer := time.NewTimer(w.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return &TimeoutError{
		Record:   fullName,
		Zone:     zone,
		Attempts: w.maxAttempts,
		Elapsed:  time.Since(start),
	}
}
