// Package api is the operations layer over the analytics engine: it owns a
// record store and exposes the populate pipeline and the analytics views the
// daemon and CLI serve.
package api

import (
	"log/slog"

	"github.com/printo/riderpro/aggregate"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/state"
	"github.com/printo/riderpro/types/track"
)

// Fleet is the API representation of the courier fleet. It wraps a store and
// a fuel configuration; all analytics methods recompute from stored records
// on every call.
type Fleet struct {
	Store *state.Store
	Fuel  *params.FuelConfig

	logger *slog.Logger
}

func NewFleet(store *state.Store, fuel *params.FuelConfig) *Fleet {
	if fuel == nil {
		fuel = params.DefaultFuelConfig
	}
	return &Fleet{
		Store:  store,
		Fuel:   fuel,
		logger: slog.With("api", "fleet"),
	}
}

func (f *Fleet) Close() error {
	return f.Store.Close()
}

// records loads the full batch and applies the request filters.
func (f *Fleet) records(filters aggregate.Filters) ([]track.Record, error) {
	all, err := f.Store.ScanAll()
	if err != nil {
		return nil, err
	}
	return filters.Apply(all), nil
}

func (f *Fleet) EmployeePerformances(filters aggregate.Filters) ([]aggregate.EmployeePerformance, error) {
	records, err := f.records(filters)
	if err != nil {
		return nil, err
	}
	return aggregate.EmployeePerformances(records, f.Fuel), nil
}

func (f *Fleet) RoutePerformances(filters aggregate.Filters) ([]aggregate.RoutePerformance, error) {
	records, err := f.records(filters)
	if err != nil {
		return nil, err
	}
	return aggregate.RoutePerformances(records, f.Fuel), nil
}

func (f *Fleet) TimeBucketMetrics(bucket aggregate.Bucket, filters aggregate.Filters) ([]aggregate.TimeMetrics, error) {
	records, err := f.records(filters)
	if err != nil {
		return nil, err
	}
	return aggregate.TimeBucketMetrics(records, bucket, f.Fuel), nil
}

func (f *Fleet) FuelAnalysis(filters aggregate.Filters) (aggregate.FuelAnalytics, error) {
	records, err := f.records(filters)
	if err != nil {
		return aggregate.FuelAnalytics{}, err
	}
	return aggregate.FuelAnalysis(records, f.Fuel), nil
}

func (f *Fleet) TopPerformers(dim aggregate.TopDimension, limit int, filters aggregate.Filters) ([]aggregate.EmployeePerformance, error) {
	perfs, err := f.EmployeePerformances(filters)
	if err != nil {
		return nil, err
	}
	return aggregate.TopPerformers(perfs, dim, limit), nil
}

// Compare aggregates two filtered periods, usually adjacent date ranges.
func (f *Fleet) Compare(current, previous aggregate.Filters) (aggregate.Comparison, error) {
	all, err := f.Store.ScanAll()
	if err != nil {
		return aggregate.Comparison{}, err
	}
	return aggregate.Compare(current.Apply(all), previous.Apply(all), f.Fuel), nil
}

func (f *Fleet) StopClusters(filters aggregate.Filters) ([]aggregate.StopCluster, error) {
	records, err := f.records(filters)
	if err != nil {
		return nil, err
	}
	return aggregate.StopClusters(records, params.DefaultStationaryConfig), nil
}

// LastKnown returns the most recent stored fix per reporting employee.
func (f *Fleet) LastKnown() []track.Record {
	return f.Store.LastKnownAll()
}
