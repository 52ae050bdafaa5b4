package sim

import (
	"time"

	"github.com/GestionGanadera/GG-Backend/internal/geo"
)

// maxDelta is the per-tick movement bound in degrees: each coordinate moves
// by a uniform draw from [-maxDelta, maxDelta].
const maxDelta = 0.0005

// MovementTick advances every connected animal by one random step, clamps
// wanderers back inside the farm perimeter (except for the rare escape draw,
// which models fence failures and GPS drift), reassigns zones, and raises a
// breach event for every animal left outside the perimeter.
func (s *Simulation) MovementTick() {
	facility := s.registry.Facility()

	for _, id := range s.order {
		ta := s.animals[id]

		ta.mu.Lock()
		if !ta.a.Connected {
			// Disconnected animals report nothing; position and zone
			// stay untouched.
			ta.mu.Unlock()
			continue
		}

		dLat := (s.randFloat() - 0.5) * 2 * maxDelta
		dLng := (s.randFloat() - 0.5) * 2 * maxDelta
		candidate := geo.Point{Lat: ta.a.Lat + dLat, Lng: ta.a.Lng + dLng}

		pos := candidate
		if !facility.Contains(candidate) && s.randFloat() > s.escapeChance {
			pos = facility.Clamp(candidate)
		}

		ta.a.Lat, ta.a.Lng = pos.Lat, pos.Lng
		ta.a.ZoneID = s.resolveZone(pos)
		snapshot := ta.a
		ta.mu.Unlock()

		// Breach detection runs against the facility boundary only,
		// once per animal per tick, with no suppression: an animal that
		// stays outside keeps alerting every tick.
		if !facility.Contains(pos) {
			if s.metrics != nil {
				s.metrics.BreachDetected()
			}
			if s.notifier != nil {
				s.notifier.Notify(BreachEvent{
					AnimalID:   snapshot.ID,
					AnimalName: snapshot.Name,
					At:         time.Now(),
					Message:    snapshot.Name + " ha salido de los límites de la granja",
				})
			}
		}

		s.enqueue(snapshot)
	}

	if s.metrics != nil {
		s.metrics.MovementTick()
	}
	s.updateGauges()
}
