package webd

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"

	"github.com/printo/riderpro/events"
	"github.com/printo/riderpro/stream"
	"github.com/printo/riderpro/types/track"
)

// handlePopulate accepts tracking records pushed by courier clients, either
// as a JSON array or as NDJSON, and runs them through the populate pipeline.
func (s *WebDaemon) handlePopulate(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil {
		s.logger.Error("No request body", "method", r.Method, "url", r.URL)
		http.Error(w, "Please send a request body", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error("Failed to read request body", "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.logger.Debug("Decoding populate push", "bytes", len(body),
		"peek", string(body[:int(math.Min(80, float64(len(body))))]))

	records, err := decodeRecordsShotgun(body)
	if err != nil || len(records) == 0 {
		s.logger.Error("Failed to decode records", "error", err)
		http.Error(w, "Failed to decode records", http.StatusUnprocessableEntity)
		return
	}

	ctx := r.Context()
	if err := s.Fleet.Populate(ctx, true, stream.Slice(ctx, records)); err != nil {
		s.logger.Error("Failed to populate", "error", err)
		http.Error(w, "Failed to populate", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("[]")); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}

	// Broadcast the push as received: decoded, but pre-validation.
	s.feedPopulated.Send(records)
	events.HTTPPopulateFeed.Send(records)

	// Run the push through the zone registry, broadcasting any enter/exit
	// transitions to websocket clients.
	for _, rec := range records {
		for _, ev := range s.Geofences.UpdatePosition(rec.Position) {
			b, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := s.melodyInstance.Broadcast(b); err != nil {
				s.logger.Warn("Failed to broadcast geofence event", "error", err)
			}
		}
	}
}

// decodeRecordsShotgun decodes a push body as a JSON array first, then as
// NDJSON. Clients send both.
func decodeRecordsShotgun(body []byte) ([]track.Record, error) {
	records := []track.Record{}
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	for {
		var r track.Record
		err := dec.Decode(&r)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, r)
	}
}
