package herd

import (
	"context"
	"log"

	"github.com/GestionGanadera/GG-Backend/internal/geo"
)

// Lister is the read surface of the herd repository.
type Lister interface {
	List(ctx context.Context, f Filter) ([]Animal, error)
}

// RadiusIndex answers "which animal ids lie within radiusKm of center" from
// a geospatial index.
type RadiusIndex interface {
	RadiusSearch(ctx context.Context, center geo.Point, radiusKm float64) ([]string, error)
}

// Service answers herd queries. Radius constraints use the geo index when one
// is available and agree with the direct haversine filter; text constraints
// use approximate matching. All filters combine with AND.
type Service struct {
	store     Lister
	index     RadiusIndex
	threshold float64
}

func NewService(store Lister, index RadiusIndex, fuzzyThreshold float64) *Service {
	return &Service{store: store, index: index, threshold: fuzzyThreshold}
}

func (s *Service) Search(ctx context.Context, q Query) ([]Animal, error) {
	animals, err := s.store.List(ctx, Filter{ZoneID: q.ZoneID, Connected: q.Connected})
	if err != nil {
		return nil, err
	}

	if q.Search != "" {
		kept := animals[:0]
		for _, a := range animals {
			if Matches(q.Search, a.Name, s.threshold) || Matches(q.Search, a.Description, s.threshold) {
				kept = append(kept, a)
			}
		}
		animals = kept
	}

	if q.Center != nil {
		animals = s.radiusFilter(ctx, animals, *q.Center, q.RadiusKm)
	}

	if animals == nil {
		animals = []Animal{}
	}
	return animals, nil
}

func (s *Service) radiusFilter(ctx context.Context, animals []Animal, center geo.Point, radiusKm float64) []Animal {
	if s.index != nil {
		ids, err := s.index.RadiusSearch(ctx, center, radiusKm)
		if err == nil {
			return keepIDs(animals, ids)
		}
		// Index unavailable: degrade to the direct distance filter rather
		// than failing the whole query.
		log.Printf("geo index unavailable, using direct distance filter: %v", err)
	}
	return FilterByRadius(animals, center, radiusKm)
}

// FilterByRadius keeps animals within radiusKm of center by great-circle
// distance. This is the client-side surface of the radius search; for any
// (center, radius, snapshot) it must select the same animals the geo index
// does, within floating-point tolerance.
func FilterByRadius(animals []Animal, center geo.Point, radiusKm float64) []Animal {
	var out []Animal
	for _, a := range animals {
		if geo.Haversine(center, a.Position()) <= radiusKm {
			out = append(out, a)
		}
	}
	return out
}

func keepIDs(animals []Animal, ids []string) []Animal {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []Animal
	for _, a := range animals {
		if _, ok := want[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}
