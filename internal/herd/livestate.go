package herd

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GestionGanadera/GG-Backend/internal/config"
	"github.com/GestionGanadera/GG-Backend/internal/geo"
)

const (
	geoKey       = "herd:geo"
	alertChannel = "herd:alerts"
)

// LiveStore keeps the herd's live state in Redis: a per-animal state hash, a
// geospatial index over positions, and a pub/sub channel for breach alerts.
type LiveStore struct {
	client *redis.Client
}

func NewLiveStore(ctx context.Context, cfg *config.Config) (*LiveStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     20,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &LiveStore{client: client}, nil
}

func (l *LiveStore) Close() error {
	return l.client.Close()
}

func (l *LiveStore) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// SyncState writes one animal's live state and refreshes the geo index
// entry in a single pipeline.
func (l *LiveStore) SyncState(ctx context.Context, a Animal) error {
	zoneID := ""
	if a.ZoneID != nil {
		zoneID = *a.ZoneID
	}
	stateKey := fmt.Sprintf("animal:%s:state", a.ID)

	pipe := l.client.Pipeline()
	pipe.HSet(ctx, stateKey, map[string]interface{}{
		"name":       a.Name,
		"lat":        a.Lat,
		"lng":        a.Lng,
		"connected":  a.Connected,
		"zone_id":    zoneID,
		"updated_at": time.Now().Unix(),
	})
	pipe.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      a.ID,
		Longitude: a.Lng,
		Latitude:  a.Lat,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}
	return nil
}

// UpdatePosition refreshes only the positional fields of an animal's live
// state, leaving descriptive fields alone.
func (l *LiveStore) UpdatePosition(ctx context.Context, id string, p geo.Point, zoneID string) error {
	stateKey := fmt.Sprintf("animal:%s:state", id)

	pipe := l.client.Pipeline()
	pipe.HSet(ctx, stateKey, map[string]interface{}{
		"lat":        p.Lat,
		"lng":        p.Lng,
		"zone_id":    zoneID,
		"updated_at": time.Now().Unix(),
	})
	pipe.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      id,
		Longitude: p.Lng,
		Latitude:  p.Lat,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}
	return nil
}

// RadiusSearch returns the ids of animals within radiusKm of center, using
// the geo index. The index works in meters.
func (l *LiveStore) RadiusSearch(ctx context.Context, center geo.Point, radiusKm float64) ([]string, error) {
	ids, err := l.client.GeoSearch(ctx, geoKey, &redis.GeoSearchQuery{
		Longitude:  center.Lng,
		Latitude:   center.Lat,
		Radius:     radiusKm * 1000,
		RadiusUnit: "m",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo search failed: %w", err)
	}
	return ids, nil
}

// PublishAlert pushes a breach notification to subscribers. Delivery is
// best-effort; nothing downstream acknowledges.
func (l *LiveStore) PublishAlert(ctx context.Context, payload []byte) error {
	return l.client.Publish(ctx, alertChannel, payload).Err()
}
