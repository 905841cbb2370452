package workers

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/services"
)

type Syncer interface {
	Sync(ctx context.Context) (*services.SyncResult, error)
}

type SyncJob struct {
	Reason string
}

// SyncWorker runs provider syncs one at a time, on demand and on a fixed interval.
type SyncWorker struct {
	syncer   Syncer
	interval time.Duration
	jobs     chan SyncJob
	done     chan struct{}
}

func NewSyncWorker(syncer Syncer, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		syncer:   syncer,
		interval: interval,
		jobs:     make(chan SyncJob, 8),
		done:     make(chan struct{}),
	}
}

// Start consumes jobs until ctx is cancelled. A zero interval disables the periodic sync.
func (w *SyncWorker) Start(ctx context.Context) {
	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		tick = ticker.C
		go func() {
			<-w.done
			ticker.Stop()
		}()
	}

	go func() {
		defer close(w.done)
		log.Infof("[SYNC] Worker started (interval %s)", w.interval)
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-tick:
				w.processJob(ctx, SyncJob{Reason: "schedule"})
			case <-ctx.Done():
				log.Info("[SYNC] Worker shutting down...")
				return
			}
		}
	}()
}

// Enqueue schedules a sync and reports false when the queue is full.
func (w *SyncWorker) Enqueue(reason string) bool {
	select {
	case w.jobs <- SyncJob{Reason: reason}:
		return true
	default:
		log.Warnf("[SYNC] Worker queue full! Dropping %s job", reason)
		return false
	}
}

// Done is closed once the worker goroutine has exited.
func (w *SyncWorker) Done() <-chan struct{} {
	return w.done
}

func (w *SyncWorker) processJob(ctx context.Context, job SyncJob) {
	result, err := w.syncer.Sync(ctx)
	if err != nil {
		log.Errorf("[SYNC] %s sync failed: %v", job.Reason, err)
		return
	}
	log.Infof("[SYNC] %s sync done: %d days tracked", job.Reason, result.TotalDays)
}
