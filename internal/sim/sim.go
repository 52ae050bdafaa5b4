package sim

import (
	"math/rand"
	"sync"
	"time"

	"github.com/GestionGanadera/GG-Backend/internal/geo"
	"github.com/GestionGanadera/GG-Backend/internal/herd"
	"github.com/GestionGanadera/GG-Backend/internal/zones"
)

// MetricsRecorder receives simulation counters. A nil recorder disables
// instrumentation.
type MetricsRecorder interface {
	MovementTick()
	BreachDetected()
	WriteDropped()
	WriteFailed()
	SetHerdGauges(total, connected int)
}

// Config tunes the simulation. Zero values fall back to the defaults:
// 0.5% escape chance, 10% connectivity flip chance, a time-seeded random
// source, and no persistence or notification.
type Config struct {
	EscapeChance float64
	FlipChance   float64
	Rng          *rand.Rand
	Notifier     Notifier
	Writer       *Writer
	Metrics      MetricsRecorder
}

// Simulation owns the mutable herd state between ticks. It is the single
// writer for position, zone and connectivity; each animal carries its own
// lock so an update (position + zone together) is atomic per animal and the
// two tick kinds never interleave on one record.
type Simulation struct {
	registry *zones.Registry
	animals  map[string]*trackedAnimal
	order    []string

	rngMu sync.Mutex
	rng   *rand.Rand

	escapeChance float64
	flipChance   float64
	notifier     Notifier
	writer       *Writer
	metrics      MetricsRecorder
}

type trackedAnimal struct {
	mu sync.Mutex
	a  herd.Animal
}

func NewSimulation(registry *zones.Registry, animals []herd.Animal, cfg Config) *Simulation {
	if cfg.EscapeChance == 0 {
		cfg.EscapeChance = 0.005
	}
	if cfg.FlipChance == 0 {
		cfg.FlipChance = 0.10
	}
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Simulation{
		registry:     registry,
		animals:      make(map[string]*trackedAnimal, len(animals)),
		order:        make([]string, 0, len(animals)),
		rng:          cfg.Rng,
		escapeChance: cfg.EscapeChance,
		flipChance:   cfg.FlipChance,
		notifier:     cfg.Notifier,
		writer:       cfg.Writer,
		metrics:      cfg.Metrics,
	}
	for _, a := range animals {
		s.animals[a.ID] = &trackedAnimal{a: a}
		s.order = append(s.order, a.ID)
	}
	return s
}

// Animal returns a copy of one animal's current state.
func (s *Simulation) Animal(id string) (herd.Animal, bool) {
	ta, ok := s.animals[id]
	if !ok {
		return herd.Animal{}, false
	}
	ta.mu.Lock()
	defer ta.mu.Unlock()
	return ta.a, true
}

// Snapshot returns a copy of the whole herd in seed order.
func (s *Simulation) Snapshot() []herd.Animal {
	out := make([]herd.Animal, 0, len(s.order))
	for _, id := range s.order {
		ta := s.animals[id]
		ta.mu.Lock()
		out = append(out, ta.a)
		ta.mu.Unlock()
	}
	return out
}

func (s *Simulation) randFloat() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}

func (s *Simulation) enqueue(a herd.Animal) {
	if s.writer != nil {
		s.writer.Enqueue(a)
	}
}

func (s *Simulation) updateGauges() {
	if s.metrics == nil {
		return
	}
	connected := 0
	snapshot := s.Snapshot()
	for _, a := range snapshot {
		if a.Connected {
			connected++
		}
	}
	s.metrics.SetHerdGauges(len(snapshot), connected)
}

// resolveZone maps a point to a zone id pointer, nil when outside every zone.
func (s *Simulation) resolveZone(p geo.Point) *string {
	if id, ok := s.registry.Resolve(p); ok {
		return &id
	}
	return nil
}
