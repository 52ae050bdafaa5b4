package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"

	"github.com/GestionGanadera/GG-Backend/internal/config"
	"github.com/GestionGanadera/GG-Backend/internal/db"
	"github.com/GestionGanadera/GG-Backend/internal/geo"
	"github.com/GestionGanadera/GG-Backend/internal/herd"
	"github.com/GestionGanadera/GG-Backend/internal/zones"
)

type zoneSeed struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Color       string     `yaml:"color"`
	Facility    bool       `yaml:"facility"`
	Seq         int        `yaml:"seq"`
	Bounds      [4]float64 `yaml:"bounds"` // minLat, minLng, maxLat, maxLng
}

type zonesFile struct {
	Zones []zoneSeed `yaml:"zones"`
}

type cattleFile struct {
	Count        int      `yaml:"count"`
	ImageURL     string   `yaml:"imageUrl"`
	Names        []string `yaml:"names"`
	Descriptions []string `yaml:"descriptions"`
}

func main() {
	zonesPath := flag.String("zones", "seeds/zones.yaml", "zone seed file")
	cattlePath := flag.String("cattle", "seeds/cattle.yaml", "herd seed file")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	cfg := config.Load()
	db.Connect(cfg)
	ctx := context.Background()

	if err := db.EnsureSchema(db.DB, "ganaderia"); err != nil {
		log.Fatal("ensure schema: ", err)
	}
	if err := db.DB.AutoMigrate(&zones.Zone{}, &herd.Animal{}); err != nil {
		log.Fatal("migrate: ", err)
	}

	zoneRecords, err := seedZones(*zonesPath)
	if err != nil {
		log.Fatal(err)
	}
	registry, err := zones.NewRegistry(zoneRecords)
	if err != nil {
		log.Fatal("seeded zones are invalid: ", err)
	}

	animals, err := seedCattle(*cattlePath, registry)
	if err != nil {
		log.Fatal(err)
	}

	// Live state is optional at seed time; the backend rebuilds it as the
	// simulation writes.
	if live, err := herd.NewLiveStore(ctx, cfg); err != nil {
		log.Printf("skipping redis seed: %v", err)
	} else {
		defer live.Close()
		for _, a := range animals {
			if err := live.SyncState(ctx, a); err != nil {
				log.Printf("redis seed failed for %s: %v", a.ID, err)
			}
		}
	}

	log.Printf("seeded %d zones and %d animals", len(zoneRecords), len(animals))
}

func seedZones(path string) ([]zones.Zone, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var file zonesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	records := make([]zones.Zone, 0, len(file.Zones))
	for _, z := range file.Zones {
		records = append(records, zones.Zone{
			ID:          z.ID,
			Name:        z.Name,
			Description: z.Description,
			Boundary:    ringFromBounds(z.Bounds),
			Color:       z.Color,
			Facility:    z.Facility,
			Seq:         z.Seq,
		})
	}

	if err := db.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&records).Error; err != nil {
		return nil, fmt.Errorf("upsert zones: %w", err)
	}
	return records, nil
}

func seedCattle(path string, registry *zones.Registry) ([]herd.Animal, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var file cattleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if file.Count <= 0 || len(file.Names) == 0 || len(file.Descriptions) == 0 {
		return nil, fmt.Errorf("%s: count, names and descriptions are required", path)
	}

	farm := registry.Facility()
	animals := make([]herd.Animal, 0, file.Count)
	for i := 0; i < file.Count; i++ {
		lat := farm.MinLat + rand.Float64()*(farm.MaxLat-farm.MinLat)
		lng := farm.MinLng + rand.Float64()*(farm.MaxLng-farm.MinLng)

		var zoneID *string
		if id, ok := registry.Resolve(geo.Point{Lat: lat, Lng: lng}); ok {
			zoneID = &id
		}

		animals = append(animals, herd.Animal{
			ID:          fmt.Sprintf("cow-%d", i+1),
			Name:        file.Names[i%len(file.Names)],
			Description: file.Descriptions[i%len(file.Descriptions)],
			ImageURL:    file.ImageURL,
			Lat:         lat,
			Lng:         lng,
			Connected:   rand.Float64() > 0.1,
			ZoneID:      zoneID,
		})
	}

	if err := db.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&animals).Error; err != nil {
		return nil, fmt.Errorf("upsert cattle: %w", err)
	}
	return animals, nil
}

func ringFromBounds(b [4]float64) zones.Boundary {
	minLat, minLng, maxLat, maxLng := b[0], b[1], b[2], b[3]
	return zones.Boundary{
		{minLng, minLat}, {maxLng, minLat}, {maxLng, maxLat}, {minLng, maxLat}, {minLng, minLat},
	}
}
