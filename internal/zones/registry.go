package zones

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/GestionGanadera/GG-Backend/internal/geo"
)

// Registry holds the farm's zone set, validated and ordered once at startup.
// Zones are immutable at runtime, so the registry is safe for concurrent reads.
type Registry struct {
	subZones []entry
	facility entry
	byID     map[string]Zone
	ordered  []Zone
}

type entry struct {
	zone Zone
	rect geo.Rect
}

// NewRegistry validates the zone set and derives each zone's bounding
// rectangle. Malformed boundaries are rejected here, never at query time.
func NewRegistry(zs []Zone) (*Registry, error) {
	if len(zs) == 0 {
		return nil, fmt.Errorf("no zones defined")
	}

	sorted := make([]Zone, len(zs))
	copy(sorted, zs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Seq < sorted[j].Seq })

	reg := &Registry{byID: make(map[string]Zone, len(sorted))}
	facilityCount := 0

	for _, z := range sorted {
		if len(z.Boundary) < 4 {
			return nil, fmt.Errorf("zone %q: boundary ring has %d vertices, need at least 4 including the closing vertex", z.ID, len(z.Boundary))
		}
		if z.Boundary[0] != z.Boundary[len(z.Boundary)-1] {
			return nil, fmt.Errorf("zone %q: boundary ring is not closed", z.ID)
		}
		rect, err := geo.BoundsOf(geo.Ring(z.Boundary))
		if err != nil {
			return nil, fmt.Errorf("zone %q: %w", z.ID, err)
		}
		if _, dup := reg.byID[z.ID]; dup {
			return nil, fmt.Errorf("duplicate zone id %q", z.ID)
		}

		reg.byID[z.ID] = z
		reg.ordered = append(reg.ordered, z)

		if z.Facility {
			facilityCount++
			reg.facility = entry{zone: z, rect: rect}
			continue
		}
		reg.subZones = append(reg.subZones, entry{zone: z, rect: rect})
	}

	if facilityCount != 1 {
		return nil, fmt.Errorf("expected exactly one facility zone, found %d", facilityCount)
	}
	return reg, nil
}

// LoadRegistry reads all zones from the store and builds a registry.
func LoadRegistry(ctx context.Context, conn *gorm.DB) (*Registry, error) {
	var zs []Zone
	if err := conn.WithContext(ctx).Order("seq").Find(&zs).Error; err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}
	return NewRegistry(zs)
}

// Resolve assigns a point to a zone: sub-zones are checked first in registry
// order, the facility boundary last, so the perimeter never shadows a more
// specific area. Returns ok=false when the point is outside every zone.
func (r *Registry) Resolve(p geo.Point) (string, bool) {
	for _, e := range r.subZones {
		if e.rect.Contains(p) {
			return e.zone.ID, true
		}
	}
	if r.facility.rect.Contains(p) {
		return r.facility.zone.ID, true
	}
	return "", false
}

// Facility returns the bounding rectangle of the farm perimeter.
func (r *Registry) Facility() geo.Rect {
	return r.facility.rect
}

// FacilityID returns the identifier of the farm perimeter zone.
func (r *Registry) FacilityID() string {
	return r.facility.zone.ID
}

// Zones returns all zones in registry order (sub-zones by seq, facility
// wherever it was seeded).
func (r *Registry) Zones() []Zone {
	out := make([]Zone, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ZoneName resolves a zone id for display. Animals may reference zones that
// no longer exist; those are tolerated and labeled rather than failing.
func (r *Registry) ZoneName(id string) string {
	if z, ok := r.byID[id]; ok {
		return z.Name
	}
	return "unknown zone"
}

// Has reports whether the registry knows the given zone id.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}
