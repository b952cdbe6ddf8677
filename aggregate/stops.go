package aggregate

import (
	"slices"

	"github.com/golang/geo/s2"
	"github.com/printo/riderpro/common"
	"github.com/printo/riderpro/geo/route"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

// StopCluster is a recurring stop location: stationary periods from any
// session whose centers fall in the same S2 cell, merged.
type StopCluster struct {
	// CellToken identifies the cluster's S2 cell at StopClusterCellLevel.
	CellToken string `json:"cellToken"`

	CenterLat float64 `json:"centerLat"`
	CenterLon float64 `json:"centerLon"`

	Stops                int     `json:"stops"`
	Employees            int     `json:"employees"`
	TotalDurationMinutes float64 `json:"totalDurationMinutes"`
}

// StopClusters detects stationary periods per session and merges them by
// S2 cell, surfacing the places couriers actually stop. Output is ordered
// by stop count, then cell token.
func StopClusters(records []track.Record, cfg *params.StationaryConfig) []StopCluster {
	type acc struct {
		cluster   StopCluster
		latSum    float64
		lonSum    float64
		employees map[string]struct{}
	}
	cells := map[string]*acc{}

	for _, session := range groupBy(records, func(r track.Record) string {
		return r.SessionID
	}) {
		slices.SortStableFunc(session, track.SlicesSortFunc)
		periods := route.StationaryPeriods(track.Positions(session), cfg)
		for _, p := range periods {
			cell := s2.CellIDFromLatLng(
				s2.LatLngFromDegrees(p.CenterLat, p.CenterLon)).
				Parent(params.StopClusterCellLevel)
			token := cell.ToToken()
			a := cells[token]
			if a == nil {
				a = &acc{
					cluster:   StopCluster{CellToken: token},
					employees: map[string]struct{}{},
				}
				cells[token] = a
			}
			a.cluster.Stops++
			a.cluster.TotalDurationMinutes += p.DurationMinutes
			a.latSum += p.CenterLat
			a.lonSum += p.CenterLon
			a.employees[session[0].EmployeeID] = struct{}{}
		}
	}

	out := make([]StopCluster, 0, len(cells))
	for _, token := range sortedKeys(cells) {
		a := cells[token]
		c := a.cluster
		c.CenterLat = common.DecimalToFixed(a.latSum/float64(c.Stops), 6)
		c.CenterLon = common.DecimalToFixed(a.lonSum/float64(c.Stops), 6)
		c.TotalDurationMinutes = common.DecimalToFixed(c.TotalDurationMinutes, 2)
		c.Employees = len(a.employees)
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b StopCluster) int {
		return b.Stops - a.Stops
	})
	return out
}
