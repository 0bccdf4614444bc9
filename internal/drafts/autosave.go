package drafts

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// AutoSaver runs a save function on a fixed period while an editing session
// is open. Save failures are logged and never interrupt editing.
type AutoSaver struct {
	interval time.Duration
	save     func(ctx context.Context) error

	once   sync.Once
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewAutoSaver builds an AutoSaver with the given period. The save closure
// decides whether there is anything worth writing (e.g. skips drafts with no
// title or description yet).
func NewAutoSaver(interval time.Duration, save func(ctx context.Context) error) *AutoSaver {
	return &AutoSaver{
		interval: interval,
		save:     save,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the ticker goroutine.
func (a *AutoSaver) Start() {
	go func() {
		defer close(a.doneCh)
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-a.stopCh:
				return
			case <-ticker.C:
				// A tick and a Stop can land together; the stop channel
				// wins so no save starts after Stop is observed.
				select {
				case <-a.stopCh:
					return
				default:
				}
				if err := a.save(context.Background()); err != nil {
					log.Warn().Err(err).Msg("Draft auto-save failed")
				}
			}
		}
	}()
}

// Stop halts the ticker and waits for any in-flight save to finish, so a
// caller can rely on no save landing after Stop returns. Must follow Start;
// safe to call more than once.
func (a *AutoSaver) Stop() {
	a.once.Do(func() { close(a.stopCh) })
	<-a.doneCh
}
