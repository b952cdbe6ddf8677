// Package geofence tracks named circular zones and the inside/outside state
// of a live position stream against them. A Service is owned by its caller;
// there is no process-wide registry. Transitions are returned synchronously
// from UpdatePosition, and also published on a typed feed for callers that
// prefer subscribing.
package geofence

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/printo/riderpro/common"
	"github.com/printo/riderpro/geo/sphere"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

type EventType string

const (
	EventEnter EventType = "enter"
	EventExit  EventType = "exit"
)

// Zone is a monitored circular area.
type Zone struct {
	ID           string  `json:"id"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	RadiusMeters float64 `json:"radiusMeters"`
	Name         string  `json:"name,omitempty"`
	Description  string  `json:"description,omitempty"`
}

// Event is an enter/exit transition for one zone.
type Event struct {
	ZoneID         string         `json:"zoneId"`
	Type           EventType      `json:"type"`
	Time           time.Time      `json:"time"`
	DistanceMeters float64        `json:"distanceMeters"`
	Position       track.Position `json:"position"`
}

// Status is the per-zone state machine. Only UpdatePosition mutates it.
type Status struct {
	Inside         bool       `json:"isInside"`
	DistanceMeters float64    `json:"distanceMeters"`
	LastEvent      *Event     `json:"lastEvent,omitempty"`
	EntryTime      *time.Time `json:"entryTime,omitempty"`
	ExitTime       *time.Time `json:"exitTime,omitempty"`
}

// Service is a mutex-guarded zone registry. Registry mutation and position
// evaluation are mutually exclusive; a Service is safe for concurrent use.
type Service struct {
	mu       sync.Mutex
	zones    map[string]Zone
	statuses map[string]*Status
	feed     event.FeedOf[Event]
}

func NewService() *Service {
	return &Service{
		zones:    make(map[string]Zone),
		statuses: make(map[string]*Status),
	}
}

// Add registers a zone. A zero radius takes the configured default.
func (s *Service) Add(z Zone) error {
	if z.ID == "" {
		return fmt.Errorf("empty zone id")
	}
	if err := (track.Position{Lat: z.Lat, Lon: z.Lon, Time: time.Unix(0, 1)}).Validate(); err != nil {
		return fmt.Errorf("zone %s: %w", z.ID, err)
	}
	if z.RadiusMeters <= 0 {
		z.RadiusMeters = params.DefaultGeofenceConfig.DefaultRadius
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones[z.ID] = z
	if _, ok := s.statuses[z.ID]; !ok {
		s.statuses[z.ID] = &Status{}
	}
	return nil
}

// Remove drops a zone and its state. Unknown ids are a no-op.
func (s *Service) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.zones, id)
	delete(s.statuses, id)
}

// Zones returns a snapshot of the registry.
func (s *Service) Zones() []Zone {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Zone, 0, len(s.zones))
	for _, z := range s.zones {
		out = append(out, z)
	}
	return out
}

// Status returns a copy of the state for one zone.
func (s *Service) Status(id string) (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statuses[id]
	if !ok {
		return Status{}, false
	}
	return *st, true
}

// UpdatePosition evaluates every registered zone against the position and
// returns the transition events produced, possibly none. Events are also
// sent on the service feed.
func (s *Service) UpdatePosition(p track.Position) []Event {
	s.mu.Lock()
	events := []Event{}
	for id, z := range s.zones {
		st := s.statuses[id]
		dist := sphere.DistanceMeters(p.Lat, p.Lon, z.Lat, z.Lon)
		st.DistanceMeters = common.DecimalToFixed(dist, 2)

		inside := dist <= z.RadiusMeters
		if inside == st.Inside {
			continue
		}

		ev := Event{
			ZoneID:         id,
			Time:           p.Time,
			DistanceMeters: st.DistanceMeters,
			Position:       p,
		}
		if inside {
			ev.Type = EventEnter
			t := p.Time
			st.EntryTime = &t
		} else {
			ev.Type = EventExit
			t := p.Time
			st.ExitTime = &t
		}
		st.Inside = inside
		st.LastEvent = &ev
		events = append(events, ev)
	}
	s.mu.Unlock()

	for _, ev := range events {
		s.feed.Send(ev)
	}
	return events
}

// Subscribe delivers future transition events to ch until unsubscribed.
func (s *Service) Subscribe(ch chan<- Event) event.Subscription {
	return s.feed.Subscribe(ch)
}

// NewRouteCompletionZone seeds a zone at a session's start point so that
// "returned to origin" falls out of ordinary enter events.
func NewRouteCompletionZone(sessionID string, start track.Position, radiusMeters float64) Zone {
	if radiusMeters <= 0 {
		radiusMeters = params.DefaultGeofenceConfig.DefaultRadius
	}
	return Zone{
		ID:           "route-completion-" + sessionID,
		Lat:          start.Lat,
		Lon:          start.Lon,
		RadiusMeters: radiusMeters,
		Name:         "route completion",
		Description:  "auto-seeded at session start",
	}
}
