package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/dojolog/dojolog-server/internal/logger"
)

// SessionGCJob periodically reclaims disk space held by expired sessions.
type SessionGCJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *SessionGCJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideSessionGCJob provides the periodic session store garbage collection job.
func ProvideSessionGCJob(i do.Injector) (*SessionGCJob, error) {
	sessions := do.MustInvoke[*SessionStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	job := &SessionGCJob{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(job.done)

		ticker := time.NewTicker(gcInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n, err := sessions.CollectGarbage(gcDiscardRatio); err != nil {
					log.Warn("Session store GC failed", "error", err)
				} else if n > 0 {
					log.Info("Session store GC completed", "rewritten", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session GC job started", "interval", gcInterval)

	return job, nil
}
