package webd

import (
	"encoding/json"
	"net/http"

	"github.com/printo/riderpro/geo/geofence"
)

func (s *WebDaemon) handleListGeofences(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Geofences.Zones())
}

func (s *WebDaemon) handleAddGeofence(w http.ResponseWriter, r *http.Request) {
	z := geofence.Zone{}
	if err := json.NewDecoder(r.Body).Decode(&z); err != nil {
		http.Error(w, "Failed to decode zone", http.StatusUnprocessableEntity)
		return
	}
	if err := s.Geofences.Add(z); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	s.writeJSON(w, z)
}
