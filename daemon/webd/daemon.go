// Package webd is the HTTP surface over the analytics engine: it serves the
// aggregated views as JSON, accepts record pushes on /populate, and
// broadcasts pushes to websocket clients.
package webd

import (
	"log"
	"log/slog"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/olahol/melody"
	"github.com/printo/riderpro/api"
	"github.com/printo/riderpro/geo/geofence"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

type WebDaemon struct {
	Config    *params.WebDaemonConfig
	Fleet     *api.Fleet
	Geofences *geofence.Service

	logger         *slog.Logger
	melodyInstance *melody.Melody
	feedPopulated  event.FeedOf[[]track.Record]
}

func NewWebDaemon(config *params.WebDaemonConfig, fleet *api.Fleet) *WebDaemon {
	if config == nil {
		config = params.DefaultWebDaemonConfig()
	}
	return &WebDaemon{
		Config:    config,
		Fleet:     fleet,
		Geofences: geofence.NewService(),

		logger:        slog.With("d", "web"),
		feedPopulated: event.FeedOf[[]track.Record]{},
	}
}

// Run starts the HTTP server (Serve) and waits for it, returning any
// server error.
func (s *WebDaemon) Run() error {
	router := s.NewRouter()
	listener, err := net.Listen(s.Config.Network, s.Config.Address)
	if err != nil {
		return err
	}
	log.Printf("Starting web daemon on %s", s.Config.Address)
	return http.Serve(listener, router)
}

func (s *WebDaemon) NewRouter() *mux.Router {
	s.initMelody()

	router := mux.NewRouter().StrictSlash(false)
	router.Use(loggingMiddleware)

	router.Path("/live").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = s.melodyInstance.HandleRequest(w, r)
	})

	apiRoutes := router.NewRoute().Subrouter()

	// All API routes use permissive CORS settings.
	apiRoutes.Use(permissiveCorsMiddleware)

	// /ping is a simple server healthcheck endpoint
	apiRoutes.Path("/ping").HandlerFunc(pingPong)

	apiJSONRoutes := apiRoutes.NewRoute().Subrouter()
	jsonMiddleware := contentTypeMiddlewareFunc("application/json")
	apiJSONRoutes.Use(jsonMiddleware)

	apiJSONRoutes.Path("/last").
		HandlerFunc(s.handleLastKnown).Methods(http.MethodGet)
	apiJSONRoutes.Path("/analytics/employees").
		HandlerFunc(s.handleEmployees).Methods(http.MethodGet)
	apiJSONRoutes.Path("/analytics/routes").
		HandlerFunc(s.handleRoutes).Methods(http.MethodGet)
	apiJSONRoutes.Path("/analytics/time/{bucket}").
		HandlerFunc(s.handleTimeBuckets).Methods(http.MethodGet)
	apiJSONRoutes.Path("/analytics/fuel").
		HandlerFunc(s.handleFuel).Methods(http.MethodGet)
	apiJSONRoutes.Path("/analytics/top-performers/{dimension}").
		HandlerFunc(s.handleTopPerformers).Methods(http.MethodGet)
	apiJSONRoutes.Path("/analytics/compare").
		HandlerFunc(s.handleCompare).Methods(http.MethodGet)
	apiJSONRoutes.Path("/analytics/stops").
		HandlerFunc(s.handleStops).Methods(http.MethodGet)
	apiJSONRoutes.Path("/geofences").
		HandlerFunc(s.handleListGeofences).Methods(http.MethodGet)

	authenticatedAPIRoutes := apiJSONRoutes.NewRoute().Subrouter()
	authenticatedAPIRoutes.Use(tokenAuthenticationMiddleware)

	authenticatedAPIRoutes.Path("/geofences").
		HandlerFunc(s.handleAddGeofence).Methods(http.MethodPost)

	populateRoutes := authenticatedAPIRoutes.NewRoute().Subrouter()
	populateRoutes.Path("/populate/").HandlerFunc(s.handlePopulate).Methods(http.MethodPost)
	populateRoutes.Path("/populate").HandlerFunc(s.handlePopulate).Methods(http.MethodPost)

	return router
}
