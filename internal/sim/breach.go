package sim

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
)

// BreachEvent is raised when an animal's post-tick position falls outside the
// farm perimeter. Delivery is best-effort; the simulator makes no ordering or
// deduplication guarantee beyond one event per (animal, tick) found outside.
type BreachEvent struct {
	ID         string    `json:"id"`
	AnimalID   string    `json:"animalId"`
	AnimalName string    `json:"animalName"`
	At         time.Time `json:"at"`
	Message    string    `json:"message"`
}

// Notifier hands breach events to an external collaborator.
type Notifier interface {
	Notify(e BreachEvent)
}

// LogNotifier writes breach events to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(e BreachEvent) {
	log.Printf("BREACH %s: %s", e.AnimalID, e.Message)
}

// AlertPublisher is the pub/sub surface breach events are pushed to.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, payload []byte) error
}

// PublishNotifier serializes breach events onto an alert channel, typically
// the Redis herd:alerts topic.
type PublishNotifier struct {
	pub     AlertPublisher
	timeout time.Duration
}

func NewPublishNotifier(pub AlertPublisher) *PublishNotifier {
	return &PublishNotifier{pub: pub, timeout: 2 * time.Second}
}

func (n *PublishNotifier) Notify(e BreachEvent) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("breach event marshal failed for %s: %v", e.AnimalID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()
	if err := n.pub.PublishAlert(ctx, payload); err != nil {
		log.Printf("breach alert publish failed for %s: %v", e.AnimalID, err)
	}
}

// MultiNotifier fans one event out to several notifiers.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(e BreachEvent) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	for _, n := range m {
		n.Notify(e)
	}
}
