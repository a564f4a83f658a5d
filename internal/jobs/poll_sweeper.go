package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SweeperPollService is the slice of poll logic the sweeper needs
type SweeperPollService interface {
	CloseExpired(ctx context.Context) ([]string, error)
}

// SweeperBroadcaster notifies connected clients about polls the sweeper
// closed
type SweeperBroadcaster interface {
	PollClosed(ctx context.Context, pollID string)
}

// PollSweeper closes polls whose expiry has passed. Voting against an
// expired poll is already rejected at the service layer; the sweeper just
// makes the closure durable and announces it.
type PollSweeper struct {
	polls       SweeperPollService
	broadcaster SweeperBroadcaster
	interval    time.Duration
	logger      *slog.Logger

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// NewPollSweeper creates a new poll sweeper job
func NewPollSweeper(polls SweeperPollService, broadcaster SweeperBroadcaster, interval time.Duration, logger *slog.Logger) *PollSweeper {
	if interval == 0 {
		interval = 1 * time.Minute
	}
	return &PollSweeper{
		polls:       polls,
		broadcaster: broadcaster,
		interval:    interval,
		logger:      logger,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the sweeper loop
func (p *PollSweeper) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run()
	p.logger.Info("poll sweeper started", slog.Duration("interval", p.interval))
}

// Stop gracefully stops the sweeper
func (p *PollSweeper) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopCh)
	p.wg.Wait()
	p.logger.Info("poll sweeper stopped")
}

func (p *PollSweeper) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.sweep()
		case <-p.stopCh:
			return
		}
	}
}

func (p *PollSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := p.RunOnce(ctx); err != nil {
		p.logger.Error("poll sweep failed", slog.String("error", err.Error()))
	}
}

// RunOnce performs a single sweep (exposed for testing and manual trigger)
func (p *PollSweeper) RunOnce(ctx context.Context) error {
	closed, err := p.polls.CloseExpired(ctx)
	if err != nil {
		return err
	}

	for _, pollID := range closed {
		p.logger.Info("closed expired poll", slog.String("poll_id", pollID))
		if p.broadcaster != nil {
			p.broadcaster.PollClosed(ctx, pollID)
		}
	}
	return nil
}

// IsRunning returns whether the sweeper loop is active
func (p *PollSweeper) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
