package params

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// DefaultBatchSize bounds in-memory record batches during ingest.
var DefaultBatchSize = 100_000

// DatadirRoot is where the record store and any derived state live.
var DatadirRoot = func() string {
	home, err := homedir.Dir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".riderpro")
}()

// MetricsEnabled gates the go-ethereum meters used by the ingest tick logger.
var MetricsEnabled = false

// InfluxDB export is opt-in, configured by environment only at the edge.
var (
	INFLUXDB_URL    = os.Getenv("INFLUXDB_URL")
	INFLUXDB_TOKEN  = os.Getenv("INFLUXDB_TOKEN")
	INFLUXDB_ORG    = os.Getenv("INFLUXDB_ORG")
	INFLUXDB_BUCKET = os.Getenv("INFLUXDB_BUCKET")
)
