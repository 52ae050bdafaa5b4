package herd

import (
	"context"
	"fmt"
	"math"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Store is the Postgres-backed herd repository.
type Store struct {
	conn *gorm.DB
}

func NewStore(conn *gorm.DB) *Store {
	return &Store{conn: conn}
}

// List returns animals matching the filter, in stable id order.
func (s *Store) List(ctx context.Context, f Filter) ([]Animal, error) {
	q := s.conn.WithContext(ctx).Model(&Animal{})
	if f.ZoneID != "" {
		q = q.Where("zone_id = ?", f.ZoneID)
	}
	if f.Connected != nil {
		q = q.Where("connected = ?", *f.Connected)
	}

	var animals []Animal
	if err := q.Order("id").Find(&animals).Error; err != nil {
		return nil, fmt.Errorf("list cattle: %w", err)
	}
	return validRecords(animals), nil
}

// All returns every animal in the herd.
func (s *Store) All(ctx context.Context) ([]Animal, error) {
	return s.List(ctx, Filter{})
}

// FindByZoneIDs returns animals currently assigned to any of the given zones.
func (s *Store) FindByZoneIDs(ctx context.Context, zoneIDs []string) ([]Animal, error) {
	if len(zoneIDs) == 0 {
		return []Animal{}, nil
	}

	rows, err := s.conn.WithContext(ctx).Raw(`
		SELECT id, name, description, image_url, lat, lng, connected, zone_id
		FROM ganaderia.cattle
		WHERE zone_id = ANY(?)
		ORDER BY id
	`, pq.Array(zoneIDs)).Rows()
	if err != nil {
		return nil, fmt.Errorf("cattle by zones query failed: %w", err)
	}
	defer rows.Close()

	var animals []Animal
	for rows.Next() {
		var a Animal
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.ImageURL, &a.Lat, &a.Lng, &a.Connected, &a.ZoneID); err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		animals = append(animals, a)
	}
	return validRecords(animals), nil
}

// UpdatePosition writes one animal's position and zone assignment together.
func (s *Store) UpdatePosition(ctx context.Context, id string, lat, lng float64, zoneID *string) error {
	res := s.conn.WithContext(ctx).Model(&Animal{}).Where("id = ?", id).Updates(map[string]interface{}{
		"lat":     lat,
		"lng":     lng,
		"zone_id": zoneID,
	})
	if res.Error != nil {
		return fmt.Errorf("update position for %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no animal with id %s", id)
	}
	return nil
}

// SyncState writes an animal's simulated state (position, zone and
// connectivity) in one statement. Used by the simulator's async writer.
func (s *Store) SyncState(ctx context.Context, a Animal) error {
	res := s.conn.WithContext(ctx).Model(&Animal{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"lat":       a.Lat,
		"lng":       a.Lng,
		"zone_id":   a.ZoneID,
		"connected": a.Connected,
	})
	if res.Error != nil {
		return fmt.Errorf("sync state for %s: %w", a.ID, res.Error)
	}
	return nil
}

// validRecords quarantines malformed rows instead of propagating them: an
// animal with a non-finite coordinate is dropped from the result.
func validRecords(in []Animal) []Animal {
	out := in[:0]
	for _, a := range in {
		if math.IsNaN(a.Lat) || math.IsInf(a.Lat, 0) || math.IsNaN(a.Lng) || math.IsInf(a.Lng, 0) {
			continue
		}
		out = append(out, a)
	}
	return out
}
