package sim

// ConnectivityTick flips each animal's connected flag independently with the
// configured probability. It runs on its own slower clock, unsynchronized
// with movement ticks.
func (s *Simulation) ConnectivityTick() {
	for _, id := range s.order {
		if s.randFloat() >= s.flipChance {
			continue
		}

		ta := s.animals[id]
		ta.mu.Lock()
		ta.a.Connected = !ta.a.Connected
		snapshot := ta.a
		ta.mu.Unlock()

		s.enqueue(snapshot)
	}
	s.updateGauges()
}
