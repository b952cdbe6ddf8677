// Package track defines the raw inputs of the analytics engine: a GPS fix
// (Position) and a fix with courier context (Record). Both are plain values;
// the engine never mutates them.
package track

import (
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/printo/riderpro/common"
)

// Shipment event types reported by courier clients.
const (
	EventPickup   = "pickup"
	EventDelivery = "delivery"
)

// VehicleTypeStandard is substituted when a record carries no vehicle type.
const VehicleTypeStandard = "standard"

// DateLayout is the calendar-day grouping key format. Keys compare
// lexically, which is only safe because the layout is zero-padded ISO.
const DateLayout = "2006-01-02"

// Position is a single timestamped GPS fix.
type Position struct {
	Lat  float64   `json:"lat"`
	Lon  float64   `json:"lon"`
	Time time.Time `json:"time"`

	// Accuracy is the reported horizontal accuracy in meters. Zero means
	// the client did not report one.
	Accuracy float64 `json:"accuracy,omitempty"`

	// Speed is the client-reported speed in km/h, if any.
	Speed float64 `json:"speed,omitempty"`
}

// Point returns the fix as an orb x,y (lon,lat) point.
func (p Position) Point() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Validate checks the input contract: finite, in-range coordinates and a
// non-zero time. Everything else (missing accuracy, odd speeds) is absorbed
// downstream, never raised.
func (p Position) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) ||
		math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return fmt.Errorf("non-finite coordinate: lat=%v lon=%v", p.Lat, p.Lon)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("invalid coordinate: lat=%.14f", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("invalid coordinate: lon=%.14f", p.Lon)
	}
	if p.Time.IsZero() {
		return fmt.Errorf("zero time")
	}
	return nil
}

func (p Position) IsValid() bool {
	return p.Validate() == nil
}

// StringPretty is a compact human-readable rendering for logs.
func (p Position) StringPretty() string {
	return fmt.Sprintf("%s [%v,%v] +/-%.0fm %.1fkm/h",
		p.Time.Format(time.DateTime),
		common.DecimalToFixed(p.Lat, 5),
		common.DecimalToFixed(p.Lon, 5),
		p.Accuracy, p.Speed)
}

// Record is a Position with its courier context. Grouping keys
// (EmployeeID, SessionID, Date, VehicleType) are opaque strings.
type Record struct {
	Position

	ID         string `json:"id,omitempty"`
	SessionID  string `json:"sessionId"`
	EmployeeID string `json:"employeeId"`

	// Shipment linkage; both must be set for a record to count toward
	// completed shipments.
	ShipmentID string `json:"shipmentId,omitempty"`
	EventType  string `json:"eventType,omitempty"` // pickup|delivery

	VehicleType string `json:"vehicleType,omitempty"`

	// FuelEfficiency is km per liter; zero means unreported.
	FuelEfficiency float64 `json:"fuelEfficiency,omitempty"`
	// FuelPrice is currency per liter; zero means unreported.
	FuelPrice float64 `json:"fuelPrice,omitempty"`

	// Date is the calendar-day grouping key. When the client does not
	// supply one it is derived from Time, in the record's own zone;
	// the engine treats it as opaque either way.
	Date string `json:"date,omitempty"`
}

// DateKey returns the calendar grouping key for the record.
func (r Record) DateKey() string {
	if r.Date != "" {
		return r.Date
	}
	return r.Time.Format(DateLayout)
}

// VehicleTypeOrDefault substitutes "standard" for an absent vehicle type.
func (r Record) VehicleTypeOrDefault() string {
	if r.VehicleType == "" {
		return VehicleTypeStandard
	}
	return r.VehicleType
}

// IsShipmentEvent reports whether the record carries a shipment completion.
func (r Record) IsShipmentEvent() bool {
	return r.ShipmentID != "" &&
		(r.EventType == EventPickup || r.EventType == EventDelivery)
}

// Validate extends Position validation with the identity contract.
func (r Record) Validate() error {
	if err := r.Position.Validate(); err != nil {
		return err
	}
	if r.EmployeeID == "" {
		return fmt.Errorf("empty employeeId")
	}
	if r.SessionID == "" {
		return fmt.Errorf("empty sessionId")
	}
	return nil
}

func (r Record) IsValid() bool {
	return r.Validate() == nil
}

// SlicesSortFunc implements slices.SortFunc ordering for Record batches:
// session, then chronology, then accuracy (better fix first on ties).
func SlicesSortFunc(a, b Record) int {
	if a.SessionID < b.SessionID {
		return -1
	} else if a.SessionID > b.SessionID {
		return 1
	}
	if a.Time.Before(b.Time) {
		return -1
	}
	if a.Time.After(b.Time) {
		return 1
	}
	if a.Accuracy < b.Accuracy {
		return -1
	}
	if a.Accuracy > b.Accuracy {
		return 1
	}
	return 0
}

// Positions projects records onto their fixes, preserving order.
func Positions(records []Record) []Position {
	out := make([]Position, len(records))
	for i, r := range records {
		out[i] = r.Position
	}
	return out
}
