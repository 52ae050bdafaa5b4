package herd_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/GestionGanadera/GG-Backend/internal/config"
	"github.com/GestionGanadera/GG-Backend/internal/db"
	"github.com/GestionGanadera/GG-Backend/internal/herd"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

func TestMain(m *testing.M) {
	// Load .env.local relative to the repo root (two directories up from internal/herd/).
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DATABASE_URL") == "" {
		// No database available; skip all integration tests gracefully.
		os.Exit(m.Run())
	}

	db.Connect(config.Load())
	if err := db.EnsureSchema(db.DB, "ganaderia"); err != nil {
		fmt.Fprintln(os.Stderr, "ensure schema:", err)
		os.Exit(1)
	}
	if err := db.DB.AutoMigrate(&herd.Animal{}); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	dbAvailable = true

	os.Exit(m.Run())
}

// createTestAnimal inserts a uniquely-named animal and registers a cleanup to
// remove it. The zone id is caller-provided so tests can isolate their rows.
func createTestAnimal(t *testing.T, zoneID *string, connected bool) herd.Animal {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	a := herd.Animal{
		ID:          fmt.Sprintf("testcow_%s", uuid.New().String()[:8]),
		Name:        "Prueba",
		Description: "Vaca de prueba de integración",
		Lat:         40.71,
		Lng:         -74.006,
		Connected:   connected,
		ZoneID:      zoneID,
	}
	if err := db.DB.Create(&a).Error; err != nil {
		t.Fatalf("create test animal: %v", err)
	}
	t.Cleanup(func() {
		db.DB.Where("id = ?", a.ID).Delete(&herd.Animal{})
	})
	return a
}

// testZoneID returns a zone id no seeded data uses, so filter queries only see
// rows created by this test run.
func testZoneID() string {
	return fmt.Sprintf("testzone_%s", uuid.New().String()[:8])
}

func TestStoreList_FiltersByZoneAndConnected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	zone := testZoneID()
	on := createTestAnimal(t, &zone, true)
	createTestAnimal(t, &zone, false)

	store := herd.NewStore(db.DB)
	connected := true
	got, err := store.List(context.Background(), herd.Filter{ZoneID: zone, Connected: &connected})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != on.ID {
		t.Errorf("expected only the connected animal %s, got %+v", on.ID, got)
	}
}

func TestStoreFindByZoneIDs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	zoneA, zoneB, zoneC := testZoneID(), testZoneID(), testZoneID()
	a := createTestAnimal(t, &zoneA, true)
	b := createTestAnimal(t, &zoneB, true)
	createTestAnimal(t, &zoneC, true)

	store := herd.NewStore(db.DB)

	// Unknown ids in the list are tolerated and simply match nothing.
	got, err := store.FindByZoneIDs(context.Background(), []string{zoneA, zoneB, "never-seeded"})
	if err != nil {
		t.Fatalf("FindByZoneIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 animals, got %d: %+v", len(got), got)
	}
	found := map[string]bool{got[0].ID: true, got[1].ID: true}
	if !found[a.ID] || !found[b.ID] {
		t.Errorf("expected %s and %s, got %+v", a.ID, b.ID, got)
	}
}

func TestStoreUpdatePosition(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	zone := testZoneID()
	a := createTestAnimal(t, nil, true)

	store := herd.NewStore(db.DB)
	if err := store.UpdatePosition(context.Background(), a.ID, 40.715, -74.002, &zone); err != nil {
		t.Fatalf("UpdatePosition: %v", err)
	}

	var got herd.Animal
	if err := db.DB.First(&got, "id = ?", a.ID).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.Lat != 40.715 || got.Lng != -74.002 {
		t.Errorf("position not written: (%v, %v)", got.Lat, got.Lng)
	}
	if got.ZoneID == nil || *got.ZoneID != zone {
		t.Errorf("zone not written: %v", got.ZoneID)
	}
}

func TestStoreUpdatePosition_UnknownAnimal(t *testing.T) {
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	store := herd.NewStore(db.DB)
	if err := store.UpdatePosition(context.Background(), "no-such-animal", 40.71, -74.0, nil); err == nil {
		t.Error("expected error for unknown animal id")
	}
}

func TestStoreSyncState(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	zone := testZoneID()
	a := createTestAnimal(t, nil, true)

	a.Lat, a.Lng = 40.709, -74.011
	a.Connected = false
	a.ZoneID = &zone

	store := herd.NewStore(db.DB)
	if err := store.SyncState(context.Background(), a); err != nil {
		t.Fatalf("SyncState: %v", err)
	}

	var got herd.Animal
	if err := db.DB.First(&got, "id = ?", a.ID).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.Lat != 40.709 || got.Lng != -74.011 || got.Connected || got.ZoneID == nil || *got.ZoneID != zone {
		t.Errorf("state not synced: %+v", got)
	}
}
