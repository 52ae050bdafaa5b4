package sim

import (
	"context"
	"sync"
	"time"
)

// Scheduler drives the two periodic simulation tasks on independent clocks
// and owns the async state writer. Stop cancels all loops and waits for them;
// a tick in progress always finishes, so no animal is left with a half
// applied update.
type Scheduler struct {
	sim               *Simulation
	movementEvery     time.Duration
	connectivityEvery time.Duration
	writer            *Writer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(sim *Simulation, movementEvery, connectivityEvery time.Duration, writer *Writer) *Scheduler {
	if movementEvery <= 0 {
		movementEvery = 2 * time.Second
	}
	if connectivityEvery <= 0 {
		connectivityEvery = 30 * time.Second
	}
	return &Scheduler{
		sim:               sim,
		movementEvery:     movementEvery,
		connectivityEvery: connectivityEvery,
		writer:            writer,
	}
}

// Start launches the movement loop, the connectivity loop and the writer.
func (s *Scheduler) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel

	if s.writer != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.writer.Run(ctx)
		}()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runEvery(ctx, s.movementEvery, s.sim.MovementTick)
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runEvery(ctx, s.connectivityEvery, s.sim.ConnectivityTick)
	}()
}

// Stop cancels pending ticks and blocks until all loops have exited.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) runEvery(ctx context.Context, every time.Duration, tick func()) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tick()
		case <-ctx.Done():
			return
		}
	}
}
