package track

import (
	"math"
	"slices"
	"testing"
	"time"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPositionValidate(t *testing.T) {
	cases := []struct {
		name    string
		pos     Position
		wantErr bool
	}{
		{"ok", Position{Lat: 46.8, Lon: -113.9, Time: ts("2024-01-01T10:00:00Z")}, false},
		{"lat high", Position{Lat: 90.1, Lon: 0, Time: ts("2024-01-01T10:00:00Z")}, true},
		{"lon low", Position{Lat: 0, Lon: -180.1, Time: ts("2024-01-01T10:00:00Z")}, true},
		{"nan", Position{Lat: math.NaN(), Lon: 0, Time: ts("2024-01-01T10:00:00Z")}, true},
		{"inf", Position{Lat: 0, Lon: math.Inf(1), Time: ts("2024-01-01T10:00:00Z")}, true},
		{"zero time", Position{Lat: 0, Lon: 0}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.pos.Validate()
			if (err != nil) != c.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestRecordDateKey(t *testing.T) {
	r := Record{Position: Position{Time: ts("2024-03-05T23:30:00Z")}}
	if got := r.DateKey(); got != "2024-03-05" {
		t.Errorf("derived date key: got %q", got)
	}
	r.Date = "2024-03-06"
	if got := r.DateKey(); got != "2024-03-06" {
		t.Errorf("explicit date key wins: got %q", got)
	}
}

func TestRecordDefaults(t *testing.T) {
	r := Record{}
	if got := r.VehicleTypeOrDefault(); got != VehicleTypeStandard {
		t.Errorf("got %q", got)
	}
	r.VehicleType = "van"
	if got := r.VehicleTypeOrDefault(); got != "van" {
		t.Errorf("got %q", got)
	}
}

func TestRecordIsShipmentEvent(t *testing.T) {
	r := Record{ShipmentID: "sh-1"}
	if r.IsShipmentEvent() {
		t.Error("shipment id without event type should not count")
	}
	r.EventType = EventDelivery
	if !r.IsShipmentEvent() {
		t.Error("delivery with shipment id should count")
	}
	r.EventType = "detour"
	if r.IsShipmentEvent() {
		t.Error("unknown event type should not count")
	}
}

func TestSlicesSortFunc(t *testing.T) {
	recs := []Record{
		{SessionID: "b", Position: Position{Time: ts("2024-01-01T10:00:00Z")}},
		{SessionID: "a", Position: Position{Time: ts("2024-01-01T11:00:00Z")}},
		{SessionID: "a", Position: Position{Time: ts("2024-01-01T10:00:00Z"), Accuracy: 20}},
		{SessionID: "a", Position: Position{Time: ts("2024-01-01T10:00:00Z"), Accuracy: 5}},
	}
	slices.SortFunc(recs, SlicesSortFunc)
	if recs[0].SessionID != "a" || recs[0].Accuracy != 5 {
		t.Errorf("want session a best accuracy first, got %+v", recs[0])
	}
	if recs[3].SessionID != "b" {
		t.Errorf("want session b last, got %+v", recs[3])
	}
}
