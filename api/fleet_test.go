package api

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/printo/riderpro/aggregate"
	"github.com/printo/riderpro/common"
	"github.com/printo/riderpro/state"
	"github.com/printo/riderpro/stream"
	"github.com/printo/riderpro/types/track"
)

func newTestFleet(t *testing.T) *Fleet {
	t.Helper()
	store, err := state.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return NewFleet(store, nil)
}

func testRecords() []track.Record {
	base := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	mk := func(emp, sess string, lat float64, at time.Time) track.Record {
		r := track.Record{SessionID: sess, EmployeeID: emp}
		r.Lat, r.Lon, r.Time = lat, 0, at
		return r
	}
	return []track.Record{
		mk("emp-1", "s1", 0, base),
		mk("emp-1", "s1", 0.1, base.Add(30*time.Minute)),
		mk("emp-2", "s2", 1, base),
		mk("emp-2", "s2", 1.1, base.Add(30*time.Minute)),
	}
}

func TestPopulateAndAggregate(t *testing.T) {
	f := newTestFleet(t)
	ctx := context.Background()

	in := stream.Slice(ctx, testRecords())
	if err := f.Populate(ctx, true, in); err != nil {
		t.Fatal(err)
	}

	perfs, err := f.EmployeePerformances(aggregate.Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(perfs) != 2 {
		t.Fatalf("got %d employees, want 2", len(perfs))
	}
	if perfs[0].EmployeeID != "emp-1" || perfs[1].EmployeeID != "emp-2" {
		t.Errorf("employee order = %q,%q", perfs[0].EmployeeID, perfs[1].EmployeeID)
	}
	if perfs[0].TotalDistanceKm <= 0 {
		t.Error("zero distance for populated employee")
	}

	filtered, err := f.EmployeePerformances(aggregate.Filters{
		EmployeeIDs: []string{"emp-2"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].EmployeeID != "emp-2" {
		t.Errorf("filtered = %+v, want only emp-2", filtered)
	}
}

func TestPopulateDropsInvalidAndDuplicate(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelWarn + 1)()
	f := newTestFleet(t)
	ctx := context.Background()

	records := testRecords()
	invalid := track.Record{SessionID: "s9", EmployeeID: "emp-9"}
	invalid.Lat, invalid.Lon = 200, 0 // out of range
	invalid.Time = records[0].Time
	records = append(records, invalid, records[0]) // plus exact duplicate

	if err := f.Populate(ctx, false, stream.Slice(ctx, records)); err != nil {
		t.Fatal(err)
	}
	all, err := f.Store.ScanAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("stored %d records, want 4 (invalid and duplicate dropped)", len(all))
	}
}

func TestPopulateReaderNDJSON(t *testing.T) {
	f := newTestFleet(t)
	ndjson := strings.Join([]string{
		`{"sessionId":"s1","employeeId":"emp-1","lat":0,"lon":0,"time":"2024-01-03T08:00:00Z"}`,
		`{"sessionId":"s1","employeeId":"emp-1","lat":0.01,"lon":0,"time":"2024-01-03T08:10:00Z"}`,
	}, "\n")
	if err := f.PopulateReader(context.Background(), true, strings.NewReader(ndjson)); err != nil {
		t.Fatal(err)
	}
	got, err := f.Store.ScanEmployee("emp-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("stored %d records, want 2", len(got))
	}
}

func TestFleetCompareAndTop(t *testing.T) {
	f := newTestFleet(t)
	ctx := context.Background()
	if err := f.Populate(ctx, true, stream.Slice(ctx, testRecords())); err != nil {
		t.Fatal(err)
	}

	c, err := f.Compare(
		aggregate.Filters{StartDate: "2024-01-03", EndDate: "2024-01-03"},
		aggregate.Filters{StartDate: "2024-01-03", EndDate: "2024-01-03"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Trend != aggregate.TrendStable {
		t.Errorf("identical periods trend = %q, want stable", c.Trend)
	}

	top, err := f.TopPerformers(aggregate.TopByDistance, 1, aggregate.Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 {
		t.Fatalf("top len = %d, want 1", len(top))
	}
}
