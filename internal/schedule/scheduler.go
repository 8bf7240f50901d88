// Package schedule runs the bot's recurring jobs: the fixed-interval poll
// cycle and the calendar-scheduled weekly report. Jobs run sequentially
// inside their own goroutine loop, so a given job never overlaps itself;
// firings that would have landed while a run was still in flight coalesce
// into at most one late run, and a firing missed by more than the grace
// window is skipped entirely.
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Job is a unit of scheduled work. It must honor ctx cancellation.
type Job func(ctx context.Context)

// Scheduler owns the job goroutines. Cancel the context passed to Every and
// Weekly to stop scheduling, then Wait for in-flight runs to drain.
type Scheduler struct {
	Log zerolog.Logger
	wg  sync.WaitGroup
}

// Every runs job once after interval and then repeatedly, interval measured
// from the end of the previous run. No overlap by construction.
func (s *Scheduler) Every(ctx context.Context, name string, interval time.Duration, job Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(interval)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			job(ctx)
			timer.Reset(interval)
		}
	}()
}

// Weekly runs job at the given local weekday/hour/minute in loc. A firing
// the loop wakes up to within grace of its scheduled instant still runs
// once; later than that it is logged and skipped. The next fire is computed
// after the run finishes, so occurrences that passed during a long run are
// coalesced, never queued.
func (s *Scheduler) Weekly(ctx context.Context, name string, weekday time.Weekday, hour, minute int, loc *time.Location, grace time.Duration, job Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		next := NextFire(time.Now(), weekday, hour, minute, loc)
		for {
			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			if late := time.Since(next); late <= grace {
				job(ctx)
			} else {
				s.Log.Warn().Str("job", name).Dur("late", late).Msg("missed firing beyond grace, skipping")
			}
			next = NextFire(time.Now(), weekday, hour, minute, loc)
		}
	}()
}

// Wait blocks until every job loop has exited.
func (s *Scheduler) Wait() { s.wg.Wait() }

// NextFire returns the first instant strictly after now that falls on the
// given weekday at hour:minute in loc. Anchored to wall-clock time, so a DST
// shift moves the UTC instant with the wall clock.
func NextFire(now time.Time, weekday time.Weekday, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	fire := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	days := (int(weekday) - int(local.Weekday()) + 7) % 7
	fire = fire.AddDate(0, 0, days)
	if !fire.After(now) {
		fire = fire.AddDate(0, 0, 7)
	}
	return fire
}
