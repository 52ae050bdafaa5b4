package sim

import (
	"context"
	"log"
	"time"

	"github.com/GestionGanadera/GG-Backend/internal/herd"
)

// StateSink receives one animal's state after a tick mutated it.
type StateSink interface {
	SyncState(ctx context.Context, a herd.Animal) error
}

// Writer decouples simulation ticks from persistence: ticks enqueue state
// snapshots without blocking, a single goroutine drains the queue into the
// sinks. A full queue drops the write and a failed sink is logged; neither
// ever stalls a tick.
type Writer struct {
	ch      chan herd.Animal
	sinks   []StateSink
	timeout time.Duration
	metrics MetricsRecorder
}

func NewWriter(bufferSize int, metrics MetricsRecorder, sinks ...StateSink) *Writer {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	return &Writer{
		ch:      make(chan herd.Animal, bufferSize),
		sinks:   sinks,
		timeout: 5 * time.Second,
		metrics: metrics,
	}
}

// Enqueue hands a state snapshot to the writer without blocking.
func (w *Writer) Enqueue(a herd.Animal) {
	select {
	case w.ch <- a:
	default:
		if w.metrics != nil {
			w.metrics.WriteDropped()
		}
	}
}

// Run drains the queue until ctx is cancelled.
func (w *Writer) Run(ctx context.Context) {
	for {
		select {
		case a := <-w.ch:
			w.flush(a)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Writer) flush(a herd.Animal) {
	for _, sink := range w.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		err := sink.SyncState(ctx, a)
		cancel()
		if err != nil {
			// No retry and no rollback: the in-memory state stays
			// authoritative and the next tick writes again.
			log.Printf("state write failed for %s: %v", a.ID, err)
			if w.metrics != nil {
				w.metrics.WriteFailed()
			}
		}
	}
}
