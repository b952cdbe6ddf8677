package webd

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/printo/riderpro/aggregate"
)

func pingPong(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// requestFilters assembles aggregation filters from query parameters:
// ?employees=a,b&vehicles=van&start=2024-01-01&end=2024-01-31
func requestFilters(r *http.Request) aggregate.Filters {
	q := r.URL.Query()
	f := aggregate.Filters{
		StartDate: q.Get("start"),
		EndDate:   q.Get("end"),
	}
	if v := q.Get("employees"); v != "" {
		f.EmployeeIDs = strings.Split(v, ",")
	}
	if v := q.Get("vehicles"); v != "" {
		f.VehicleTypes = strings.Split(v, ",")
	}
	return f
}

func (s *WebDaemon) writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

func (s *WebDaemon) handleLastKnown(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Fleet.LastKnown())
}

func (s *WebDaemon) handleEmployees(w http.ResponseWriter, r *http.Request) {
	result, err := s.Fleet.EmployeePerformances(requestFilters(r))
	if err != nil {
		s.logger.Warn("Failed to aggregate employees", "error", err)
		http.Error(w, "Failed to aggregate employees", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, result)
}

func (s *WebDaemon) handleRoutes(w http.ResponseWriter, r *http.Request) {
	result, err := s.Fleet.RoutePerformances(requestFilters(r))
	if err != nil {
		s.logger.Warn("Failed to aggregate routes", "error", err)
		http.Error(w, "Failed to aggregate routes", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, result)
}

func (s *WebDaemon) handleTimeBuckets(w http.ResponseWriter, r *http.Request) {
	bucket := aggregate.Bucket(mux.Vars(r)["bucket"])
	if !bucket.IsValid() {
		http.Error(w, "Unknown bucket, want day|week|month", http.StatusBadRequest)
		return
	}
	result, err := s.Fleet.TimeBucketMetrics(bucket, requestFilters(r))
	if err != nil {
		s.logger.Warn("Failed to aggregate time buckets", "error", err)
		http.Error(w, "Failed to aggregate time buckets", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, result)
}

func (s *WebDaemon) handleFuel(w http.ResponseWriter, r *http.Request) {
	result, err := s.Fleet.FuelAnalysis(requestFilters(r))
	if err != nil {
		s.logger.Warn("Failed to aggregate fuel", "error", err)
		http.Error(w, "Failed to aggregate fuel", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, result)
}

func (s *WebDaemon) handleTopPerformers(w http.ResponseWriter, r *http.Request) {
	dim, err := aggregate.ParseTopDimension(mux.Vars(r)["dimension"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "Bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	result, err := s.Fleet.TopPerformers(dim, limit, requestFilters(r))
	if err != nil {
		s.logger.Warn("Failed to rank top performers", "error", err)
		http.Error(w, "Failed to rank top performers", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, result)
}

// handleCompare compares two date ranges:
// ?start=...&end=...&prevStart=...&prevEnd=...
// Employee and vehicle filters apply to both periods.
func (s *WebDaemon) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	current := requestFilters(r)
	previous := current
	previous.StartDate = q.Get("prevStart")
	previous.EndDate = q.Get("prevEnd")

	result, err := s.Fleet.Compare(current, previous)
	if err != nil {
		s.logger.Warn("Failed to compare periods", "error", err)
		http.Error(w, "Failed to compare periods", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, result)
}

func (s *WebDaemon) handleStops(w http.ResponseWriter, r *http.Request) {
	result, err := s.Fleet.StopClusters(requestFilters(r))
	if err != nil {
		s.logger.Warn("Failed to cluster stops", "error", err)
		http.Error(w, "Failed to cluster stops", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, result)
}
