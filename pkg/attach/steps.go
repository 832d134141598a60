package attach

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Step is a named unit of the attach flow.
type Step struct {
	Name string
	Run  func(context.Context) error
}

// StepTiming records how long a completed step took.
type StepTiming struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
}

// runSteps executes steps in order until one fails or all are completed.
// Errors from failed steps are returned directly together with the timings
// of the steps that completed.
func runSteps(ctx context.Context, log *logrus.Entry, steps []Step) ([]StepTiming, error) {
	timings := make([]StepTiming, 0, len(steps))
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return timings, err
		}

		log.Infof("running step %s", step.Name)
		start := time.Now()
		if err := step.Run(ctx); err != nil {
			log.Errorf("step %s encountered error: %s", step.Name, err)
			return timings, err
		}
		timings = append(timings, StepTiming{Name: step.Name, Duration: time.Since(start)})
	}
	return timings, nil
}
