package webd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/printo/riderpro/aggregate"
	"github.com/printo/riderpro/api"
	"github.com/printo/riderpro/geo/geofence"
	"github.com/printo/riderpro/state"
)

const pushBody = `[
	{"sessionId":"s1","employeeId":"emp-1","lat":0,"lon":0,"time":"2024-01-03T08:00:00Z"},
	{"sessionId":"s1","employeeId":"emp-1","lat":0.05,"lon":0,"time":"2024-01-03T08:30:00Z"},
	{"sessionId":"s2","employeeId":"emp-2","lat":1,"lon":0,"time":"2024-01-03T09:00:00Z"},
	{"sessionId":"s2","employeeId":"emp-2","lat":1.05,"lon":0,"time":"2024-01-03T09:30:00Z"}
]`

func newTestDaemon(t *testing.T) *WebDaemon {
	t.Helper()
	store, err := state.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return NewWebDaemon(nil, api.NewFleet(store, nil))
}

func populateTestDaemon(t *testing.T, d *WebDaemon) {
	t.Helper()
	router := d.NewRouter()
	req := httptest.NewRequest(http.MethodPost, "/populate", strings.NewReader(pushBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /populate = %d: %s", w.Code, w.Body.String())
	}
}

func TestPing(t *testing.T) {
	d := newTestDaemon(t)
	w := httptest.NewRecorder()
	d.NewRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Errorf("GET /ping = %d %q", w.Code, w.Body.String())
	}
}

func TestPopulateThenEmployees(t *testing.T) {
	d := newTestDaemon(t)
	populateTestDaemon(t, d)

	w := httptest.NewRecorder()
	d.NewRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/employees", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /analytics/employees = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	perfs := []aggregate.EmployeePerformance{}
	if err := json.Unmarshal(w.Body.Bytes(), &perfs); err != nil {
		t.Fatal(err)
	}
	if len(perfs) != 2 {
		t.Errorf("got %d employees, want 2", len(perfs))
	}
}

func TestEmployeeFilterQuery(t *testing.T) {
	d := newTestDaemon(t)
	populateTestDaemon(t, d)

	w := httptest.NewRecorder()
	d.NewRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/analytics/employees?employees=emp-2&start=2024-01-01&end=2024-01-31", nil))
	perfs := []aggregate.EmployeePerformance{}
	if err := json.Unmarshal(w.Body.Bytes(), &perfs); err != nil {
		t.Fatal(err)
	}
	if len(perfs) != 1 || perfs[0].EmployeeID != "emp-2" {
		t.Errorf("filtered = %+v, want only emp-2", perfs)
	}
}

func TestTimeBucketRouting(t *testing.T) {
	d := newTestDaemon(t)
	populateTestDaemon(t, d)
	router := d.NewRouter()

	for _, bucket := range []string{"day", "week", "month"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/time/"+bucket, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET /analytics/time/%s = %d", bucket, w.Code)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/time/fortnight", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("GET /analytics/time/fortnight = %d, want 400", w.Code)
	}
}

func TestTopPerformersRouting(t *testing.T) {
	d := newTestDaemon(t)
	populateTestDaemon(t, d)
	router := d.NewRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top-performers/distance?limit=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET top-performers = %d", w.Code)
	}
	perfs := []aggregate.EmployeePerformance{}
	if err := json.Unmarshal(w.Body.Bytes(), &perfs); err != nil {
		t.Fatal(err)
	}
	if len(perfs) != 1 {
		t.Errorf("limit=1 returned %d entries", len(perfs))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top-performers/vibes", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown dimension = %d, want 400", w.Code)
	}
}

func TestCompareHandler(t *testing.T) {
	d := newTestDaemon(t)
	populateTestDaemon(t, d)

	w := httptest.NewRecorder()
	d.NewRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/analytics/compare?start=2024-01-03&end=2024-01-03&prevStart=2024-01-03&prevEnd=2024-01-03", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /analytics/compare = %d", w.Code)
	}
	c := aggregate.Comparison{}
	if err := json.Unmarshal(w.Body.Bytes(), &c); err != nil {
		t.Fatal(err)
	}
	if c.Trend != aggregate.TrendStable {
		t.Errorf("identical periods trend = %q, want stable", c.Trend)
	}
}

func TestPopulateRejectsGarbage(t *testing.T) {
	d := newTestDaemon(t)
	w := httptest.NewRecorder()
	d.NewRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/populate", strings.NewReader("not json")))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("garbage push = %d, want 422", w.Code)
	}
}

func TestTokenAuthentication(t *testing.T) {
	t.Setenv("RIDERPRO_TOKEN", "sesame")
	d := newTestDaemon(t)
	router := d.NewRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/populate", strings.NewReader(pushBody)))
	if w.Code != http.StatusForbidden {
		t.Errorf("unauthenticated push = %d, want 403", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/populate", strings.NewReader(pushBody))
	req.Header.Set("Authorization", "sesame")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authenticated push = %d, want 200", w.Code)
	}
}

func TestGeofenceEndpoints(t *testing.T) {
	d := newTestDaemon(t)
	router := d.NewRouter()

	zone := `{"id":"depot","lat":0,"lon":0,"radiusMeters":100,"name":"Depot"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/geofences", strings.NewReader(zone)))
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /geofences = %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/geofences", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /geofences = %d", w.Code)
	}
	zones := []geofence.Zone{}
	if err := json.Unmarshal(w.Body.Bytes(), &zones); err != nil {
		t.Fatal(err)
	}
	if len(zones) != 1 || zones[0].ID != "depot" {
		t.Errorf("zones = %+v, want the depot zone", zones)
	}

	// The push starts at the zone center and moves away, so the depot zone
	// saw an enter and then an exit.
	populateTestDaemon(t, d)
	status, ok := d.Geofences.Status("depot")
	if !ok {
		t.Fatal("no status for registered zone")
	}
	if status.LastEvent == nil || status.EntryTime == nil {
		t.Errorf("status = %+v, want an entry recorded", status)
	}
	if status.Inside {
		t.Error("zone still inside after the push moved away")
	}
}

func TestGeofenceAddRejectsBadZone(t *testing.T) {
	d := newTestDaemon(t)
	w := httptest.NewRecorder()
	d.NewRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/geofences",
		strings.NewReader(`{"id":"","lat":999,"lon":0}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad zone = %d, want 400", w.Code)
	}
}
