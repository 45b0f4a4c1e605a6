package pipeline

import (
	"context"
	"time"

	"assetforge/internal/services"
)

// pollPhase tracks the explicit states of a task polling loop:
// submitted → polling → succeeded | failed | timed out.
type pollPhase int

const (
	phaseSubmitted pollPhase = iota
	phasePolling
)

// taskPoller drives an asynchronous provider task to completion on a fixed
// interval with a hard timeout.
type taskPoller struct {
	interval time.Duration
	timeout  time.Duration
	clock    Clock
}

func newTaskPoller(interval, timeout time.Duration, clock Clock) *taskPoller {
	if clock == nil {
		clock = NewRealClock()
	}
	return &taskPoller{interval: interval, timeout: timeout, clock: clock}
}

// await polls until the task succeeds, fails, or the timeout elapses. The
// first poll happens immediately after submission; later polls wait one
// interval. The onProgress callback receives provider progress observations.
func (p *taskPoller) await(ctx context.Context, stage StageName, poll func(context.Context) (TaskStatus, error), onProgress func(int)) (TaskStatus, error) {
	deadline := p.clock.Now().Add(p.timeout)
	phase := phaseSubmitted

	var last TaskStatus
	for {
		if phase == phasePolling {
			if err := p.clock.Sleep(ctx, p.interval); err != nil {
				return last, err
			}
		}
		phase = phasePolling

		status, err := poll(ctx)
		if err != nil {
			// Transient poll errors are retried until the deadline; the task
			// itself may still be running on the provider side.
			if p.clock.Now().After(deadline) {
				return last, services.Wrap(services.ErrTimeout, string(stage), "poll task", "polling timed out", err)
			}
			continue
		}
		last = status
		if onProgress != nil {
			onProgress(status.Progress)
		}

		switch status.State {
		case TaskSucceeded:
			return status, nil
		case TaskFailed:
			message := status.Message
			if message == "" {
				message = "provider reported failure"
			}
			return status, services.Wrap(services.ErrProvider, string(stage), "poll task", message, nil)
		}

		if p.clock.Now().After(deadline) {
			return last, services.Wrap(services.ErrTimeout, string(stage), "poll task",
				"task did not finish within "+p.timeout.String(), nil)
		}
	}
}
