package state

import (
	"testing"
	"time"

	"github.com/printo/riderpro/types/track"
)

func testRecord(employee, session string, at time.Time) track.Record {
	r := track.Record{
		ID:         employee + "-" + at.Format(time.RFC3339),
		SessionID:  session,
		EmployeeID: employee,
		Date:       at.Format(track.DateLayout),
	}
	r.Lat, r.Lon, r.Time = 40.0, -70.0, at
	return r
}

func TestStoreAppendScan(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	records := []track.Record{
		testRecord("emp-1", "s1", base),
		testRecord("emp-1", "s1", base.Add(time.Minute)),
		testRecord("emp-2", "s2", base),
	}
	if err := s.Append(records...); err != nil {
		t.Fatal(err)
	}

	got, err := s.ScanEmployee("emp-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("ScanEmployee(emp-1) len = %d, want 2", len(got))
	}
	if !got[0].Time.Before(got[1].Time) {
		t.Errorf("records not chronological: %v then %v", got[0].Time, got[1].Time)
	}

	all, err := s.ScanAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("ScanAll len = %d, want 3", len(all))
	}

	employees, err := s.Employees()
	if err != nil {
		t.Fatal(err)
	}
	if len(employees) != 2 {
		t.Errorf("Employees = %v, want 2 entries", employees)
	}
}

func TestStoreSameInstantRecords(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	at := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	a := testRecord("emp-1", "s1", at)
	b := testRecord("emp-1", "s1", at)
	b.ID = "other"
	if err := s.Append(a, b); err != nil {
		t.Fatal(err)
	}
	got, err := s.ScanEmployee("emp-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("same-instant records collapsed, len = %d", len(got))
	}
}

func TestStoreLastKnown(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	if err := s.Append(
		testRecord("emp-1", "s1", base),
		testRecord("emp-1", "s1", base.Add(time.Minute)),
	); err != nil {
		t.Fatal(err)
	}
	last, ok := s.LastKnown("emp-1")
	if !ok {
		t.Fatal("LastKnown miss for emp-1")
	}
	if !last.Time.Equal(base.Add(time.Minute)) {
		t.Errorf("LastKnown time = %v, want %v", last.Time, base.Add(time.Minute))
	}
	if _, ok := s.LastKnown("emp-404"); ok {
		t.Error("LastKnown hit for unknown employee")
	}
}
