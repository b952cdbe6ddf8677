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
	"log"
	"log/slog"

	"github.com/printo/riderpro/api"
	"github.com/printo/riderpro/daemon/webd"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/state"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var optHTTPAddr string
var optWebdDatadir string

// webdCmd represents the serve command
var webdCmd = &cobra.Command{
	Use:   "webd",
	Short: "Start the webserver",
	Long:  `Serves the fleet analytics API`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		slog.Info("webd.Run")

		store, err := state.Open(optWebdDatadir)
		if err != nil {
			log.Fatalln(err)
		}
		fleet := api.NewFleet(store, params.DefaultFuelConfig)
		defer fleet.Close()

		config := params.DefaultWebDaemonConfig()
		config.DataDir = optWebdDatadir
		config.Address = optHTTPAddr

		server := webd.NewWebDaemon(config, fleet)
		if err := server.Run(); err != nil {
			log.Fatalln(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(webdCmd)

	defaults := params.DefaultWebDaemonConfig()
	pFlags := webdCmd.PersistentFlags()
	pFlags.AddFlagSet(&pflag.FlagSet{})
	pFlags.StringVar(&optHTTPAddr, "address", defaults.Address, "HTTP address to listen on")
	pFlags.StringVar(&optWebdDatadir, "datadir", params.DatadirRoot, "Record store directory")
}
