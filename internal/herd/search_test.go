package herd_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/GestionGanadera/GG-Backend/internal/geo"
	"github.com/GestionGanadera/GG-Backend/internal/herd"
)

// fakeLister applies zone and connectivity filters in memory, the way the
// Postgres store does in SQL.
type fakeLister struct {
	animals []herd.Animal
}

func (f fakeLister) List(_ context.Context, filter herd.Filter) ([]herd.Animal, error) {
	var out []herd.Animal
	for _, a := range f.animals {
		if filter.ZoneID != "" && (a.ZoneID == nil || *a.ZoneID != filter.ZoneID) {
			continue
		}
		if filter.Connected != nil && a.Connected != *filter.Connected {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// fakeIndex answers radius queries over a fixed position set by great-circle
// distance, standing in for the Redis geo index.
type fakeIndex struct {
	positions map[string]geo.Point
	err       error
	calls     int
}

func (f *fakeIndex) RadiusSearch(_ context.Context, center geo.Point, radiusKm float64) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var ids []string
	for id, p := range f.positions {
		if geo.Haversine(center, p) <= radiusKm {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

var center = geo.Point{Lat: 40.7128, Lng: -74.006}

// searchHerd places three animals at roughly 0.2, 0.9 and 3 km north of the
// search center (one degree of latitude is ~111.19 km).
func searchHerd() []herd.Animal {
	zone := "farm"
	return []herd.Animal{
		{ID: "c1", Name: "Bella", Description: "Holstein de 5 años", Lat: center.Lat + 0.2/111.19, Lng: center.Lng, Connected: true, ZoneID: &zone},
		{ID: "c2", Name: "Luna", Description: "Jersey de 3 años", Lat: center.Lat + 0.9/111.19, Lng: center.Lng, Connected: false, ZoneID: &zone},
		{ID: "c3", Name: "Estrella", Description: "Angus de 4 años", Lat: center.Lat + 3.0/111.19, Lng: center.Lng, Connected: true, ZoneID: &zone},
	}
}

func indexFor(animals []herd.Animal) *fakeIndex {
	pos := make(map[string]geo.Point, len(animals))
	for _, a := range animals {
		pos[a.ID] = a.Position()
	}
	return &fakeIndex{positions: pos}
}

func ids(animals []herd.Animal) []string {
	out := make([]string, 0, len(animals))
	for _, a := range animals {
		out = append(out, a.ID)
	}
	return out
}

func TestSearch_RadiusOneKm(t *testing.T) {
	animals := searchHerd()
	svc := herd.NewService(fakeLister{animals}, indexFor(animals), 0.72)

	got, err := svc.Search(context.Background(), herd.Query{Center: &center, RadiusKm: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []string{"c1", "c2"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("radius 1km: got %v, want %v", ids(got), want)
	}
}

// TestSearch_IndexAndDirectAgree checks the cross-surface consistency
// contract: the index-backed path and the direct haversine filter select the
// same animals for the same inputs.
func TestSearch_IndexAndDirectAgree(t *testing.T) {
	animals := searchHerd()

	for _, radius := range []float64{0.1, 0.5, 1, 2, 5, 10} {
		indexed, err := herd.NewService(fakeLister{animals}, indexFor(animals), 0.72).
			Search(context.Background(), herd.Query{Center: &center, RadiusKm: radius})
		if err != nil {
			t.Fatalf("radius %v: %v", radius, err)
		}
		direct := herd.FilterByRadius(animals, center, radius)

		if !reflect.DeepEqual(ids(indexed), ids(direct)) {
			t.Errorf("radius %v: index-backed %v != direct %v", radius, ids(indexed), ids(direct))
		}
	}
}

func TestSearch_FiltersCombineWithAND(t *testing.T) {
	animals := searchHerd()
	connected := true
	svc := herd.NewService(fakeLister{animals}, indexFor(animals), 0.72)

	// Radius 5km covers all three; connected=true keeps c1 and c3; text
	// "bella" keeps only c1.
	got, err := svc.Search(context.Background(), herd.Query{
		Search:    "bella",
		ZoneID:    "farm",
		Connected: &connected,
		Center:    &center,
		RadiusKm:  5,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []string{"c1"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("combined filters: got %v, want %v", ids(got), want)
	}
}

func TestSearch_FuzzyTextFilter(t *testing.T) {
	animals := searchHerd()
	svc := herd.NewService(fakeLister{animals}, indexFor(animals), 0.72)

	// One typo in the name still matches.
	got, err := svc.Search(context.Background(), herd.Query{Search: "estrela"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []string{"c3"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("fuzzy search: got %v, want %v", ids(got), want)
	}
}

func TestSearch_FallsBackWhenIndexFails(t *testing.T) {
	animals := searchHerd()
	broken := &fakeIndex{err: errors.New("connection refused")}
	svc := herd.NewService(fakeLister{animals}, broken, 0.72)

	got, err := svc.Search(context.Background(), herd.Query{Center: &center, RadiusKm: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []string{"c1", "c2"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("fallback: got %v, want %v", ids(got), want)
	}
	if broken.calls != 1 {
		t.Errorf("index called %d times, want 1", broken.calls)
	}
}

func TestSearch_NilIndexUsesDirectFilter(t *testing.T) {
	animals := searchHerd()
	svc := herd.NewService(fakeLister{animals}, nil, 0.72)

	got, err := svc.Search(context.Background(), herd.Query{Center: &center, RadiusKm: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []string{"c1", "c2"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("nil index: got %v, want %v", ids(got), want)
	}
}

func TestSearch_EmptyResultIsNotNil(t *testing.T) {
	svc := herd.NewService(fakeLister{nil}, nil, 0.72)
	got, err := svc.Search(context.Background(), herd.Query{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}
