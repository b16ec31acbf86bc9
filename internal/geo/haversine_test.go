package geo

import (
	"math"
	"testing"
)

func TestDistanceMeters_SamePointIsZero(t *testing.T) {
	if d := DistanceMeters(40.4168, -3.7038, 40.4168, -3.7038); d != 0 {
		t.Fatalf("distance between identical points = %v, want 0", d)
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	points := [][4]float64{
		{40.4168, -3.7038, 41.3874, 2.1686},   // Madrid - Barcelona
		{38.9848, -1.8585, 39.4699, -0.3763},  // Albacete - Valencia
		{-33.4489, -70.6693, 51.5072, -0.1276}, // Santiago - London
	}
	for _, p := range points {
		ab := DistanceMeters(p[0], p[1], p[2], p[3])
		ba := DistanceMeters(p[2], p[3], p[0], p[1])
		if ab != ba {
			t.Fatalf("distance not symmetric: %v vs %v", ab, ba)
		}
		if ab <= 0 {
			t.Fatalf("expected positive distance, got %v", ab)
		}
	}
}

func TestDistanceMeters_OneMillidegreeLatitude(t *testing.T) {
	// 0.001° of latitude is roughly 111 m anywhere on the globe.
	d := DistanceMeters(40.4168, -3.7038, 40.4178, -3.7038)
	if math.Abs(d-111) > 2 {
		t.Fatalf("0.001° latitude distance = %v m, want 111 ± 2 m", d)
	}
}

func TestWithinRadius_BoundaryIsInclusive(t *testing.T) {
	refLat, refLon := 40.4168, -3.7038
	lat, lon := 40.4178, -3.7038
	d := DistanceMeters(refLat, refLon, lat, lon)

	if !WithinRadius(refLat, refLon, lat, lon, d) {
		t.Fatal("point at exactly the radius should be inside")
	}
	if WithinRadius(refLat, refLon, lat, lon, d-0.001) {
		t.Fatal("point just outside the radius should be outside")
	}
	if !WithinRadius(refLat, refLon, refLat, refLon, 0) {
		t.Fatal("zero distance should be within a zero radius")
	}
}
