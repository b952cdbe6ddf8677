package webd

import (
	"encoding/json"
	"log"
	"log/slog"

	"github.com/olahol/melody"
	"github.com/printo/riderpro/types/track"
)

type websocketAction string

var websocketActionPopulate websocketAction = "populate"

type broadcast struct {
	Action  websocketAction `json:"action"`
	Records []track.Record  `json:"records"`
}

// initMelody sets up the websocket handler.
func (s *WebDaemon) initMelody() {
	s.melodyInstance = melody.New()

	// New clients get the fleet's last known positions immediately.
	s.melodyInstance.HandleConnect(func(ms *melody.Session) {
		log.Println("[websocket] connected", ms.Request.RemoteAddr)
		last := s.Fleet.LastKnown()
		if len(last) == 0 {
			return
		}
		b, _ := json.Marshal(broadcast{
			Action:  websocketActionPopulate,
			Records: last,
		})
		ms.Write(b)
	})

	// Don't care about incoming messages from clients. Log and drop.
	s.melodyInstance.HandleMessage(func(ms *melody.Session, msg []byte) {
		log.Println("[websocket] message", string(msg))
	})

	s.melodyInstance.HandleDisconnect(func(ms *melody.Session) {
		log.Println("[websocket] disconnected", ms.Request.RemoteAddr)
	})

	s.melodyInstance.HandleError(func(ms *melody.Session, e error) {
		log.Println("[websocket] error", e, ms.Request.RemoteAddr)
	})

	// Broadcast record pushes - as received - to all connected clients.
	// This is the data the client sent us, not necessarily what was
	// ultimately stored; population enforces validation and dedupe.
	pushes := make(chan []track.Record)
	pushSub := s.feedPopulated.Subscribe(pushes)
	go func() {
		for {
			select {
			case records := <-pushes:
				b, err := json.Marshal(broadcast{
					Action:  websocketActionPopulate,
					Records: records,
				})
				if err != nil {
					slog.Error("Failed to marshal populate event", "error", err)
					continue
				}
				if err := s.melodyInstance.Broadcast(b); err != nil {
					slog.Warn("Failed to broadcast populate event", "error", err)
				}
			case err := <-pushSub.Err():
				slog.Error("Populate feed subscription failed", "error", err)
				return
			}
		}
	}()
}
