package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the Prometheus metrics for the simulation and its state
// writer. It satisfies the simulator's MetricsRecorder interface.
type Collector struct {
	gatherer prometheus.Gatherer

	MovementTicks prometheus.Counter
	BreachEvents  prometheus.Counter
	WriteDrops    prometheus.Counter
	WriteFailures prometheus.Counter

	HerdSize      prometheus.Gauge
	HerdConnected prometheus.Gauge
}

// NewCollector registers the metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.MovementTicks, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_movement_ticks_total",
		Help: "Total completed movement simulation ticks.",
	}), "sim_movement_ticks_total"); err != nil {
		return nil, err
	}
	if c.BreachEvents, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_breach_events_total",
		Help: "Total breach events raised for animals outside the farm perimeter.",
	}), "sim_breach_events_total"); err != nil {
		return nil, err
	}
	if c.WriteDrops, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_state_write_drops_total",
		Help: "State writes dropped because the writer queue was full.",
	}), "sim_state_write_drops_total"); err != nil {
		return nil, err
	}
	if c.WriteFailures, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_state_write_failures_total",
		Help: "State writes that reached a sink and failed.",
	}), "sim_state_write_failures_total"); err != nil {
		return nil, err
	}
	if c.HerdSize, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "herd_size",
		Help: "Current number of animals in the simulation.",
	}), "herd_size"); err != nil {
		return nil, err
	}
	if c.HerdConnected, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "herd_connected",
		Help: "Current number of animals with an active connection.",
	}), "herd_connected"); err != nil {
		return nil, err
	}

	return c, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (c *Collector) MovementTick() {
	if c != nil && c.MovementTicks != nil {
		c.MovementTicks.Inc()
	}
}

func (c *Collector) BreachDetected() {
	if c != nil && c.BreachEvents != nil {
		c.BreachEvents.Inc()
	}
}

func (c *Collector) WriteDropped() {
	if c != nil && c.WriteDrops != nil {
		c.WriteDrops.Inc()
	}
}

func (c *Collector) WriteFailed() {
	if c != nil && c.WriteFailures != nil {
		c.WriteFailures.Inc()
	}
}

func (c *Collector) SetHerdGauges(total, connected int) {
	if c == nil {
		return
	}
	if c.HerdSize != nil {
		c.HerdSize.Set(float64(total))
	}
	if c.HerdConnected != nil {
		c.HerdConnected.Set(float64(connected))
	}
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
