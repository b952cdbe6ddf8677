/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/printo/riderpro/api"
	"github.com/printo/riderpro/events"
	"github.com/printo/riderpro/metrics/influxdb"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/state"
	"github.com/printo/riderpro/stream"
	"github.com/printo/riderpro/types/track"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var optSortRecordBatches bool
var optDatadir string

// populateCmd represents the populate command
var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Populate tracking records from stdin stream",
	Long: `

Records from mixed employees ARE supported, e.g. a whole fleet export.

Records are decoded as JSON lines from stdin. Lines without an employeeId
are sniffed cheaply and skipped before full decoding. Records are validated,
deduped, optionally sorted per batch, and appended to the record store.

If INFLUXDB_URL is set, stored batches are also exported to InfluxDB.

Examples:

  zcat fleet.ndjson.gz | riderpro populate --sort
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
		go func() {
			sig := <-interrupt
			slog.Warn("Received signal", "signal", sig)
			cancel()
		}()

		store, err := state.Open(optDatadir)
		if err != nil {
			log.Fatal(err)
		}
		fleet := api.NewFleet(store, params.DefaultFuelConfig)
		defer func() {
			if err := fleet.Close(); err != nil {
				slog.Error("Failed to close store", "error", err)
			}
			slog.Info("Populate done")
		}()

		if params.INFLUXDB_URL != "" {
			storedCh := make(chan []track.Record, 8)
			sub := events.NewStoredRecordFeed.Subscribe(storedCh)
			defer sub.Unsubscribe()
			go func() {
				for batch := range storedCh {
					if err := influxdb.ExportRecords(batch); err != nil {
						slog.Error("Failed to export to InfluxDB", "error", err)
					}
				}
			}()
		}

		meter := stream.NewTickMeter(10 * time.Second)
		defer meter.Stop()

		lines := make(chan []byte)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
			for scanner.Scan() {
				line := make([]byte, len(scanner.Bytes()))
				copy(line, scanner.Bytes())
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err := scanner.Err(); err != nil {
				slog.Error("Failed to scan stdin", "error", err)
			}
		}()

		sniffed := stream.Filter(ctx, func(line []byte) bool {
			return gjson.GetBytes(line, "employeeId").Exists()
		}, lines)

		records := stream.Transform(ctx, func(line []byte) track.Record {
			r := track.Record{}
			if err := json.Unmarshal(line, &r); err != nil {
				slog.Error("Failed to unmarshal record", "error", err)
				return track.Record{}
			}
			meter.Mark(r.Time, line)
			return r
		}, sniffed)

		if err := fleet.Populate(ctx, optSortRecordBatches, records); err != nil {
			slog.Error("Failed to populate records", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(populateCmd)
	populateCmd.PersistentFlags().BoolVar(&optSortRecordBatches, "sort", true,
		"Sort batches into session/time order before storing")
	populateCmd.PersistentFlags().StringVar(&optDatadir, "datadir", params.DatadirRoot,
		"Record store directory")
}
