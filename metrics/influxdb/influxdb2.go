package influxdb

import (
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

// ExportRecords posts tracking records to an InfluxDB Write API.
// Because it accepts a slice, use batches. The Write API will buffer and
// flush. The last error encountered is returned.
func ExportRecords(records []track.Record) error {
	opts := influxdb2.DefaultOptions()
	opts.SetPrecision(time.Second)
	client := influxdb2.NewClientWithOptions(params.INFLUXDB_URL, params.INFLUXDB_TOKEN, opts)
	writeAPI := client.WriteAPI(params.INFLUXDB_ORG, params.INFLUXDB_BUCKET)

	// Errors returns a channel for reading errors which occur during async
	// writes. Must be called before performing any writes for errors to be
	// collected. The chan is unbuffered and must be drained or the writer
	// will block.
	errorsCh := writeAPI.Errors()
	var err error
	wait := sync.WaitGroup{}
	wait.Add(1)
	go func() {
		defer wait.Done()
		for e := range errorsCh {
			if e != nil {
				err = e
			}
		}
	}()

	for _, r := range records {
		p := influxdb2.NewPointWithMeasurement("fix").
			SetTime(r.Time).
			AddTag("employee", r.EmployeeID).
			AddTag("session", r.SessionID).
			AddTag("vehicle", r.VehicleTypeOrDefault()).
			AddField("latitude", r.Lat).
			AddField("longitude", r.Lon).
			AddField("speed", r.Speed).
			AddField("accuracy", r.Accuracy)

		if r.IsShipmentEvent() {
			p.AddTag("event", r.EventType)
			p.AddField("shipment", r.ShipmentID)
		}

		writeAPI.WritePoint(p)
	}

	writeAPI.Flush()
	client.Close()
	wait.Wait()
	return err
}
