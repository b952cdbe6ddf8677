package sphere

import (
	"math"
	"testing"
)

func TestDistanceSymmetry(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"missoula to portland", 46.87, -113.99, 45.52, -122.68},
		{"equator crossing", -1.0, 10.0, 1.0, -10.0},
		{"near poles", 89.9, 0, 89.9, 180},
		{"antimeridian", 0, 179.99, 0, -179.99},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ab := Distance(c.lat1, c.lon1, c.lat2, c.lon2)
			ba := Distance(c.lat2, c.lon2, c.lat1, c.lon1)
			if ab != ba {
				t.Errorf("not symmetric: %v != %v", ab, ba)
			}
			if ab < 0 {
				t.Errorf("negative distance: %v", ab)
			}
		})
	}
}

func TestDistanceIdentity(t *testing.T) {
	if d := Distance(46.87, -113.99, 46.87, -113.99); d != 0 {
		t.Errorf("want 0 for identical points, got %v", d)
	}
}

func TestDistanceKnown(t *testing.T) {
	// One degree of latitude on the 6371 km sphere is ~111.19 km.
	d := Distance(0, 0, 1, 0)
	if math.Abs(d-111.19) > 0.1 {
		t.Errorf("1 degree latitude: want ~111.19 km, got %v", d)
	}
}

func TestDistanceAntipodalStable(t *testing.T) {
	d := Distance(0, 0, 0, 180)
	if math.IsNaN(d) {
		t.Fatal("NaN at antipode")
	}
	half := math.Pi * EarthRadiusKm
	if math.Abs(d-half) > 1 {
		t.Errorf("antipodal distance: want ~%v, got %v", half, d)
	}
}

func TestBearing(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"due north", 0, 0, 1, 0, 0},
		{"due east", 0, 0, 0, 1, 90},
		{"due south", 1, 0, 0, 0, 180},
		{"due west", 0, 1, 0, 0, 270},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Bearing(c.lat1, c.lon1, c.lat2, c.lon2)
			if math.Abs(got-c.want) > 0.01 {
				t.Errorf("want %v, got %v", c.want, got)
			}
			if got < 0 || got >= 360 {
				t.Errorf("bearing out of [0,360): %v", got)
			}
		})
	}
}
