package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const classStatusTimeout = 30 * time.Second

// StatusSyncer moves classes along their date-driven lifecycle.
type StatusSyncer interface {
	SyncStatuses(ctx context.Context, now time.Time) (int64, error)
}

// Locker grants a cluster-wide lock. release must be called once ok is true.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// ClassStatusWorker periodically advances class statuses from their
// start and end dates.
type ClassStatusWorker struct {
	cron   *cron.Cron
	spec   string
	syncer StatusSyncer
	lock   Locker
	now    func() time.Time
	log    zerolog.Logger
}

// NewClassStatusWorker creates a worker for a six-field cron spec. lock may
// be nil when only a single instance runs.
func NewClassStatusWorker(syncer StatusSyncer, lock Locker, spec string, log zerolog.Logger) *ClassStatusWorker {
	l := log.With().Str("component", "class_status_worker").Logger()
	return &ClassStatusWorker{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger{l}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{l})),
		),
		spec:   spec,
		syncer: syncer,
		lock:   lock,
		now:    time.Now,
		log:    l,
	}
}

// Start runs one sync immediately, then schedules the rest.
func (w *ClassStatusWorker) Start(ctx context.Context) error {
	w.RunOnce(ctx)

	if _, err := w.cron.AddFunc(w.spec, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule class status job %q: %w", w.spec, err)
	}
	w.cron.Start()

	w.log.Info().Str("spec", w.spec).Msg("ClassStatusWorker started")
	return nil
}

// Stop waits for a running job to finish.
func (w *ClassStatusWorker) Stop() {
	<-w.cron.Stop().Done()
	w.log.Info().Msg("ClassStatusWorker stopped")
}

// RunOnce performs a single sync and logs the outcome.
func (w *ClassStatusWorker) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, classStatusTimeout)
	defer cancel()

	if w.lock != nil {
		release, ok, err := w.lock.TryLock(ctx, config.WorkerKey.ClassStatusLock, classStatusTimeout)
		if err != nil {
			w.log.Error().Err(err).Msg("Class status lock unavailable")
			return
		}
		if !ok {
			w.log.Debug().Msg("Class status sync running elsewhere, skipping")
			return
		}
		defer release()
	}

	start := time.Now()
	changed, err := w.syncer.SyncStatuses(ctx, w.now())
	if err != nil {
		w.log.Error().Err(err).Msg("Class status sync failed")
		return
	}
	if changed > 0 {
		w.log.Info().Int64("changed", changed).Dur("elapsed", time.Since(start)).Msg("Class statuses updated")
		return
	}
	w.log.Debug().Dur("elapsed", time.Since(start)).Msg("Class statuses up to date")
}

// cronLogger adapts zerolog to cron's logger interface.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
