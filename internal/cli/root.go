// Package cli defines the ntmanager commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/ntmanager-backend/internal/app"
	"github.com/heartmarshall/ntmanager-backend/internal/config"
)

// NewRootCmd returns the ntmanager command tree.
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "ntmanager",
		Short: "NT Manager - work order delay tracking and live paid-items timeline",
		Long: `ntmanager tracks technical work orders (NTs) and their items through the
payment lifecycle, flags items that exceed their category SLA and keeps a
live timeline of paid items.`,
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.yaml (default $CONFIG_PATH or ./config.yaml)")

	load := func() (*config.Config, error) {
		path := configPath
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		return config.LoadFrom(path)
	}

	root.AddCommand(serveCmd(load))
	root.AddCommand(migrateCmd(load))
	root.AddCommand(watchCmd(load))

	return root
}

type configLoader func() (*config.Config, error)
