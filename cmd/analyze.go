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
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/printo/riderpro/aggregate"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/stream"
	"github.com/printo/riderpro/types/track"
	"github.com/spf13/cobra"
)

var optAnalyzeStart string
var optAnalyzeEnd string
var optAnalyzeEmployees []string
var optAnalyzeVehicles []string
var optAnalyzeBucket string

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Aggregate tracking records from stdin to analytics JSON on stdout",
	Long: `

Records are decoded as JSON lines from stdin, filtered, and aggregated in
memory. Nothing is persisted. Output is a single JSON document holding the
employee, route, time-bucket, fuel, and stop-cluster views.

Examples:

  zcat fleet.ndjson.gz | riderpro analyze --start 2024-01-01 --end 2024-01-31 --bucket week
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		ctx := context.Background()

		records := stream.Collect(ctx,
			stream.NDJSON[track.Record](ctx, os.Stdin))
		records = aggregate.Filters{
			EmployeeIDs:  optAnalyzeEmployees,
			VehicleTypes: optAnalyzeVehicles,
			StartDate:    optAnalyzeStart,
			EndDate:      optAnalyzeEnd,
		}.Apply(records)

		bucket := aggregate.Bucket(optAnalyzeBucket)
		if !bucket.IsValid() {
			log.Fatalf("unknown bucket %q, want day|week|month", optAnalyzeBucket)
		}

		out := struct {
			Employees []aggregate.EmployeePerformance `json:"employees"`
			Routes    []aggregate.RoutePerformance    `json:"routes"`
			Time      []aggregate.TimeMetrics         `json:"time"`
			Fuel      aggregate.FuelAnalytics         `json:"fuel"`
			Stops     []aggregate.StopCluster         `json:"stops"`
		}{
			Employees: aggregate.EmployeePerformances(records, params.DefaultFuelConfig),
			Routes:    aggregate.RoutePerformances(records, params.DefaultFuelConfig),
			Time:      aggregate.TimeBucketMetrics(records, bucket, params.DefaultFuelConfig),
			Fuel:      aggregate.FuelAnalysis(records, params.DefaultFuelConfig),
			Stops:     aggregate.StopClusters(records, params.DefaultStationaryConfig),
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	pFlags := analyzeCmd.PersistentFlags()
	pFlags.StringVar(&optAnalyzeStart, "start", "", "Start date, YYYY-MM-DD inclusive")
	pFlags.StringVar(&optAnalyzeEnd, "end", "", "End date, YYYY-MM-DD inclusive")
	pFlags.StringSliceVar(&optAnalyzeEmployees, "employees", nil, "Employee IDs to include")
	pFlags.StringSliceVar(&optAnalyzeVehicles, "vehicles", nil, "Vehicle types to include")
	pFlags.StringVar(&optAnalyzeBucket, "bucket", "day", "Time bucket: day|week|month")
}
