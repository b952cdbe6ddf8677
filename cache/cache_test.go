package cache

import (
	"testing"
	"time"

	"github.com/printo/riderpro/types/track"
)

func rec(employee, session string, at time.Time) track.Record {
	return track.Record{
		Position:   track.Position{Lat: 46.8, Lon: -113.9, Time: at},
		EmployeeID: employee,
		SessionID:  session,
	}
}

func TestDedupe(t *testing.T) {
	pass := NewDedupeFunc()
	t0 := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	r := rec("e1", "s1", t0)
	if !pass(r) {
		t.Error("first sight rejected")
	}
	if pass(r) {
		t.Error("duplicate passed")
	}
	if !pass(rec("e1", "s1", t0.Add(time.Second))) {
		t.Error("distinct record rejected")
	}
}

func TestLastKnown(t *testing.T) {
	lk := NewLastKnown(time.Hour)
	t0 := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	if _, ok := lk.Get("e1"); ok {
		t.Error("empty cache hit")
	}
	lk.Set(rec("e1", "s1", t0))
	lk.Set(rec("e1", "s1", t0.Add(time.Minute)))
	lk.Set(rec("e2", "s2", t0))

	got, ok := lk.Get("e1")
	if !ok || !got.Time.Equal(t0.Add(time.Minute)) {
		t.Errorf("last known: %+v ok=%v", got, ok)
	}
	if all := lk.All(); len(all) != 2 {
		t.Errorf("want 2 employees, got %d", len(all))
	}
}
