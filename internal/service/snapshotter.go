package service

import (
	"context"
	"sync"
	"time"

	"github.com/arbiterlabs/arbiter/internal/domain"
	"go.uber.org/zap"
)

const defaultSnapshotInterval = 1 * time.Minute

// Snapshotter periodically flushes the live reputation ledger to the agents
// table so weights survive restarts even if write-through after an event
// failed.
type Snapshotter struct {
	ledger     *Ledger
	agentStore domain.AgentStore
	logger     *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewSnapshotter(ledger *Ledger, as domain.AgentStore, logger *zap.Logger) *Snapshotter {
	return &Snapshotter{
		ledger:     ledger,
		agentStore: as,
		logger:     logger,
		interval:   defaultSnapshotInterval,
		stopCh:     make(chan struct{}),
	}
}

func (s *Snapshotter) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the snapshotter on a periodic schedule in a background goroutine.
func (s *Snapshotter) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("reputation snapshotter started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if err := s.RunOnce(ctx); err != nil {
					s.logger.Error("reputation snapshot failed", zap.Error(err))
				}
				cancel()
			case <-s.stopCh:
				s.logger.Info("reputation snapshotter stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the snapshotter.
func (s *Snapshotter) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// RunOnce persists every agent's current reputation state.
func (s *Snapshotter) RunOnce(ctx context.Context) error {
	var lastErr error
	for _, a := range s.ledger.List() {
		a := a
		if err := s.agentStore.UpdateReputation(ctx, &a); err != nil {
			s.logger.Warn("snapshot failed for agent",
				zap.String("agent_id", a.ID),
				zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}
