// Package scheduler periodically moves debates through their lifecycle.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"debatehub/internal/lifecycle"
	"debatehub/internal/models"
	"debatehub/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

const DefaultInterval = 60 * time.Second

// ErrTickInProgress is returned by Tick when another tick still holds the slot.
var ErrTickInProgress = errors.New("scheduler: tick already in progress")

// Store is the persistence the scheduler needs.
type Store interface {
	// DebatesToActivate lists SCHEDULED debates with start_at <= now.
	DebatesToActivate(ctx context.Context, now time.Time) ([]models.Debate, error)
	// DebatesToEnd lists ACTIVE debates with end_at <= now.
	DebatesToEnd(ctx context.Context, now time.Time) ([]models.Debate, error)
	// TransitionDebate sets status to `to` only if the row is still in `from`.
	// It reports whether the row was changed.
	TransitionDebate(ctx context.Context, id uint, from, to models.DebateStatus) (bool, error)
}

type Options struct {
	Interval time.Duration
	Now      func() time.Time
}

// Result lists what one tick changed.
type Result struct {
	Activated []uint `json:"activated"`
	Ended     []uint `json:"ended"`
	Failed    int    `json:"failed"`
}

type Scheduler struct {
	store    Store
	interval time.Duration
	now      func() time.Time
	slot     *semaphore.Weighted
	log      *logrus.Entry
	wg       sync.WaitGroup
}

func New(store Store, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scheduler{
		store:    store,
		interval: opts.Interval,
		now:      opts.Now,
		slot:     semaphore.NewWeighted(1),
		log:      utils.Component("scheduler"),
	}
}

// Start runs one tick immediately and then one per interval until ctx is
// done. Each tick runs in its own goroutine; a tick that comes due while the
// previous one is still running is skipped.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.WithField("interval", s.interval.String()).Info("lifecycle scheduler started")
	s.spawn(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			s.log.Info("lifecycle scheduler stopped")
			return
		case <-ticker.C:
			s.spawn(ctx)
		}
	}
}

func (s *Scheduler) spawn(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.Tick(ctx); errors.Is(err, ErrTickInProgress) {
			s.log.Warn("previous tick still running, skipping")
		}
	}()
}

// Tick advances every stale debate using the current time.
func (s *Scheduler) Tick(ctx context.Context) (Result, error) {
	if !s.slot.TryAcquire(1) {
		return Result{}, ErrTickInProgress
	}
	defer s.slot.Release(1)

	res := s.Advance(ctx, s.now())
	if len(res.Activated) > 0 || len(res.Ended) > 0 || res.Failed > 0 {
		s.log.WithFields(logrus.Fields{
			"activated": len(res.Activated),
			"ended":     len(res.Ended),
			"failed":    res.Failed,
		}).Info("lifecycle tick applied")
	}
	return res, nil
}

// Advance runs both batches against now. It does not take the tick slot;
// callers outside Tick must not run it concurrently with the scheduler.
//
// Batch two never touches a debate activated by batch one, so a debate
// moves at most one state per call.
func (s *Scheduler) Advance(ctx context.Context, now time.Time) Result {
	var res Result

	activated := make(map[uint]bool)
	toActivate, err := s.store.DebatesToActivate(ctx, now)
	if err != nil {
		s.log.WithError(err).Error("failed to list debates to activate")
	}
	for _, d := range toActivate {
		ok, err := s.apply(ctx, d, now)
		switch {
		case err != nil:
			res.Failed++
		case ok:
			activated[d.ID] = true
			res.Activated = append(res.Activated, d.ID)
		}
	}

	toEnd, err := s.store.DebatesToEnd(ctx, now)
	if err != nil {
		s.log.WithError(err).Error("failed to list debates to end")
	}
	for _, d := range toEnd {
		if activated[d.ID] {
			continue
		}
		ok, err := s.apply(ctx, d, now)
		switch {
		case err != nil:
			res.Failed++
		case ok:
			res.Ended = append(res.Ended, d.ID)
		}
	}
	return res
}

func (s *Scheduler) apply(ctx context.Context, d models.Debate, now time.Time) (bool, error) {
	next := lifecycle.Next(d.Status, d.StartAt, d.EndAt, now)
	if next == d.Status {
		return false, nil
	}
	ok, err := s.store.TransitionDebate(ctx, d.ID, d.Status, next)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"debate_id": d.ID,
			"from":      d.Status,
			"to":        next,
		}).WithError(err).Error("failed to transition debate")
		return false, err
	}
	return ok, nil
}
